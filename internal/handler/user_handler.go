package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mrjaiswar/task-app/internal/auth"
	"github.com/mrjaiswar/task-app/internal/model"
	"github.com/mrjaiswar/task-app/internal/service"
)

// UserHandler handles account and session endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SignupRequest represents a user signup request.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a response carrying a user and a session token.
type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup godoc
// @Summary Sign up a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.userService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login godoc
// @Summary Login with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// Logout godoc
// @Summary Logout the current session
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	user := auth.CurrentUser(c)
	token := auth.CurrentToken(c)

	if err := h.userService.Logout(c.Request().Context(), user, token); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// LogoutAll godoc
// @Summary Logout every session
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/logoutAll [post]
func (h *UserHandler) LogoutAll(c echo.Context) error {
	user := auth.CurrentUser(c)

	if err := h.userService.LogoutAll(c.Request().Context(), user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out everywhere"})
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, auth.CurrentUser(c))
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Description Partial update over name, email and password. Any other field rejects the whole request.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UserUpdate true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var update service.UserUpdate
	if err := bindStrict(c, &update); err != nil {
		return httpError(err)
	}
	if err := c.Validate(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), auth.CurrentUser(c), update)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteMe godoc
// @Summary Delete the authenticated user's account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user, err := h.userService.Delete(c.Request().Context(), auth.CurrentUser(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
