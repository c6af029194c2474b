package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/mrjaiswar/task-app/internal/errors"
)

// bindStrict decodes a partial-update body, rejecting the whole request if
// any field outside the target struct appears. The check runs before any
// identifier parsing or store lookup.
func bindStrict(c echo.Context, v interface{}) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return apperrors.ErrFieldNotAllowed
		}
		return fmt.Errorf("%w: malformed request body", apperrors.ErrValidation)
	}
	return nil
}

// httpError translates a domain error into the echo error for the response.
func httpError(err error) *echo.HTTPError {
	mapped := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
}
