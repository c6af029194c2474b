package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/model"
	"github.com/mrjaiswar/task-app/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(ctx context.Context, name, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Logout(ctx context.Context, user *model.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *MockUserService) LogoutAll(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserService) Update(ctx context.Context, user *model.User, update service.UserUpdate) (*model.User, error) {
	args := m.Called(ctx, user, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestUserHandler_Signup(t *testing.T) {
	svc := new(MockUserService)
	created := &model.User{
		ID:           primitive.NewObjectID(),
		Name:         "Riju",
		Email:        "riju@x.com",
		PasswordHash: "$2a$10$somethingsecret",
		Tokens:       []model.SessionToken{{Token: "session-token"}},
	}
	svc.On("Signup", mock.Anything, "Riju", "riju@x.com", "rijuvijayan").Return(created, "session-token", nil)

	c, rec := newTestContext(t, http.MethodPost, "/users", `{"name":"Riju","email":"riju@x.com","password":"rijuvijayan"}`, primitive.NewObjectID())

	err := NewUserHandler(svc).Signup(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "riju@x.com")
	// Neither the plaintext nor the hash may ever leave the server.
	assert.NotContains(t, rec.Body.String(), "rijuvijayan")
	assert.NotContains(t, rec.Body.String(), "somethingsecret")
	svc.AssertExpectations(t)
}

func TestUserHandler_Signup_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing name",
			body: `{"email":"riju@x.com","password":"rijuvijayan"}`,
		},
		{
			name: "bad email",
			body: `{"name":"Riju","email":"not-an-email","password":"rijuvijayan"}`,
		},
		{
			name: "short password",
			body: `{"name":"Riju","email":"riju@x.com","password":"short"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			c, _ := newTestContext(t, http.MethodPost, "/users", tt.body, primitive.NewObjectID())

			err := NewUserHandler(svc).Signup(c)

			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
			svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	svc := new(MockUserService)
	svc.On("Login", mock.Anything, "mike@x.com", "wrong").Return(nil, "", apperrors.ErrInvalidCredentials)

	c, _ := newTestContext(t, http.MethodPost, "/users/login", `{"email":"mike@x.com","password":"wrong"}`, primitive.NewObjectID())

	err := NewUserHandler(svc).Login(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestUserHandler_UpdateMe_UnknownFieldRejected(t *testing.T) {
	owner := primitive.NewObjectID()
	svc := new(MockUserService)

	c, _ := newTestContext(t, http.MethodPatch, "/users/me", `{"name":"Mike","role":"admin"}`, owner)

	err := NewUserHandler(svc).UpdateMe(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_UpdateMe(t *testing.T) {
	owner := primitive.NewObjectID()
	name := "Michael"

	svc := new(MockUserService)
	svc.On("Update", mock.Anything, mock.AnythingOfType("*model.User"), service.UserUpdate{Name: &name}).
		Return(&model.User{ID: owner, Name: name, Email: "mike@x.com"}, nil)

	c, rec := newTestContext(t, http.MethodPatch, "/users/me", `{"name":"Michael"}`, owner)

	err := NewUserHandler(svc).UpdateMe(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Michael")
	svc.AssertExpectations(t)
}

func TestUserHandler_Me(t *testing.T) {
	owner := primitive.NewObjectID()
	svc := new(MockUserService)

	c, rec := newTestContext(t, http.MethodGet, "/users/me", "", owner)

	err := NewUserHandler(svc).Me(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mike@x.com")
}

func TestUserHandler_DeleteMe(t *testing.T) {
	owner := primitive.NewObjectID()
	user := &model.User{ID: owner, Name: "Mike", Email: "mike@x.com"}

	svc := new(MockUserService)
	svc.On("Delete", mock.Anything, mock.AnythingOfType("*model.User")).Return(user, nil)

	c, rec := newTestContext(t, http.MethodDelete, "/users/me", "", owner)

	err := NewUserHandler(svc).DeleteMe(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mike@x.com")
	svc.AssertExpectations(t)
}
