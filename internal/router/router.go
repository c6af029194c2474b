package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/mrjaiswar/task-app/internal/auth"
	"github.com/mrjaiswar/task-app/internal/handler"
	"github.com/mrjaiswar/task-app/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	users repository.UserRepository,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/users", userHandler.Signup)
	e.POST("/users/login", userHandler.Login)

	// Secured routes: signature check, user resolution and session
	// membership all happen before any handler runs.
	authenticated := auth.Middleware(jwtService, users)

	e.POST("/users/logout", userHandler.Logout, authenticated)
	e.POST("/users/logoutAll", userHandler.LogoutAll, authenticated)
	e.GET("/users/me", userHandler.Me, authenticated)
	e.PATCH("/users/me", userHandler.UpdateMe, authenticated)
	e.DELETE("/users/me", userHandler.DeleteMe, authenticated)

	tasks := e.Group("/tasks", authenticated)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
