package auth

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/model"
)

const (
	// CurrentUserKey is the echo context key holding the resolved user.
	CurrentUserKey = "currentUser"
	// CurrentTokenKey is the echo context key holding the presenting token.
	CurrentTokenKey = "currentToken"
)

// UserResolver resolves a user identifier extracted from a verified token
// against the credential store.
type UserResolver interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Middleware returns the echo middleware guarding protected routes. A
// request passes only when the bearer token's signature verifies, the bound
// user still exists, and the token is present in that user's session list.
// The resolved user and the raw token are attached to the request context;
// nothing else is mutated.
func Middleware(jwtService *JWTService, users UserResolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: CurrentUserKey,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			userID, err := jwtService.Verify(tokenString)
			if err != nil {
				return nil, err
			}
			objectID, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				return nil, apperrors.ErrInvalidToken
			}
			user, err := users.FindByID(c.Request().Context(), objectID)
			if err != nil {
				// A well-signed token whose user is gone is as dead as a
				// forged one.
				return nil, apperrors.ErrInvalidToken
			}
			if !user.HasToken(tokenString) {
				// Signed but revoked: logged out sessions stay logged out.
				return nil, apperrors.ErrInvalidToken
			}
			c.Set(CurrentTokenKey, tokenString)
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			return echo.NewHTTPError(http.StatusForbidden, httpErr.ToErrorResponse())
		},
	})
}

// CurrentUser returns the authenticated user attached by Middleware.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(CurrentUserKey).(*model.User)
	return user
}

// CurrentToken returns the raw session token attached by Middleware.
func CurrentToken(c echo.Context) string {
	token, _ := c.Get(CurrentTokenKey).(string)
	return token
}
