package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrjaiswar/task-app/internal/auth"
	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/model"
	"github.com/mrjaiswar/task-app/internal/repository"
	"github.com/mrjaiswar/task-app/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, owner primitive.ObjectID, input service.TaskCreate) (*model.Task, error) {
	args := m.Called(ctx, owner, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, owner primitive.ObjectID, opts repository.ListOptions) ([]model.Task, error) {
	args := m.Called(ctx, owner, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) GetByID(ctx context.Context, owner primitive.ObjectID, id string) (*model.Task, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, owner primitive.ObjectID, id string, update service.TaskUpdate) (*model.Task, error) {
	args := m.Called(ctx, owner, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, owner primitive.ObjectID, id string) (*model.Task, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, method, target, body string, owner primitive.ObjectID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.CurrentUserKey, &model.User{ID: owner, Email: "mike@x.com"})
	return c, rec
}

func TestTaskHandler_Update_UnknownFieldRejectedBeforeLookup(t *testing.T) {
	owner := primitive.NewObjectID()
	svc := new(MockTaskService)
	h := NewTaskHandler(svc)

	// Mixed payload: the valid fields must not be applied either.
	body := `{"description":"still valid","owner":"` + primitive.NewObjectID().Hex() + `"}`
	c, _ := newTestContext(t, http.MethodPatch, "/tasks/"+primitive.NewObjectID().Hex(), body, owner)

	err := h.Update(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_Update_AllowedFields(t *testing.T) {
	owner := primitive.NewObjectID()
	taskID := primitive.NewObjectID()

	svc := new(MockTaskService)
	completed := true
	description := "Buy milk"
	svc.On("Update", mock.Anything, owner, taskID.Hex(), service.TaskUpdate{
		Description: &description,
		Completed:   &completed,
	}).Return(&model.Task{ID: taskID, Description: description, Completed: true, Owner: owner}, nil)

	c, rec := newTestContext(t, http.MethodPatch, "/", `{"description":"Buy milk","completed":true}`, owner)
	c.SetPath("/tasks/:id")
	c.SetParamNames("id")
	c.SetParamValues(taskID.Hex())

	err := NewTaskHandler(svc).Update(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_Create_OwnerComesFromCaller(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	svc := new(MockTaskService)
	svc.On("Create", mock.Anything, owner, service.TaskCreate{Description: "x"}).
		Return(&model.Task{ID: primitive.NewObjectID(), Description: "x", Owner: owner}, nil)

	// The body claims a different owner; binding has nowhere to put it and
	// the service receives only the caller's identity.
	body := `{"description":"x","owner":"` + other.Hex() + `"}`
	c, rec := newTestContext(t, http.MethodPost, "/tasks", body, owner)

	err := NewTaskHandler(svc).Create(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), owner.Hex())
	assert.NotContains(t, rec.Body.String(), other.Hex())
	svc.AssertExpectations(t)
}

func TestTaskHandler_List_QueryParams(t *testing.T) {
	owner := primitive.NewObjectID()

	completed := true

	tests := []struct {
		name     string
		target   string
		wantOpts repository.ListOptions
	}{
		{
			name:     "no params",
			target:   "/tasks",
			wantOpts: repository.ListOptions{},
		},
		{
			name:   "completed filter with sort and pagination",
			target: "/tasks?completed=true&sortBy=createdAt:desc&limit=10&skip=20",
			wantOpts: repository.ListOptions{
				Completed: &completed,
				SortField: "createdAt",
				SortDesc:  true,
				Limit:     10,
				Skip:      20,
			},
		},
		{
			name:   "ascending sort",
			target: "/tasks?sortBy=description:asc",
			wantOpts: repository.ListOptions{
				SortField: "description",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTaskService)
			svc.On("List", mock.Anything, owner, mock.MatchedBy(func(opts repository.ListOptions) bool {
				if (opts.Completed == nil) != (tt.wantOpts.Completed == nil) {
					return false
				}
				if opts.Completed != nil && *opts.Completed != *tt.wantOpts.Completed {
					return false
				}
				return opts.SortField == tt.wantOpts.SortField &&
					opts.SortDesc == tt.wantOpts.SortDesc &&
					opts.Limit == tt.wantOpts.Limit &&
					opts.Skip == tt.wantOpts.Skip
			})).Return([]model.Task{}, nil)

			c, rec := newTestContext(t, http.MethodGet, tt.target, "", owner)

			err := NewTaskHandler(svc).List(c)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_List_InvalidQueryParams(t *testing.T) {
	owner := primitive.NewObjectID()

	tests := []struct {
		name   string
		target string
	}{
		{
			name:   "bad completed",
			target: "/tasks?completed=banana",
		},
		{
			name:   "negative limit",
			target: "/tasks?limit=-1",
		},
		{
			name:   "bad skip",
			target: "/tasks?skip=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTaskService)
			c, _ := newTestContext(t, http.MethodGet, tt.target, "", owner)

			err := NewTaskHandler(svc).List(c)

			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
			svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTaskHandler_Get_NotFoundForOtherOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	taskID := primitive.NewObjectID()

	svc := new(MockTaskService)
	svc.On("GetByID", mock.Anything, owner, taskID.Hex()).Return(nil, apperrors.ErrNotFound)

	c, _ := newTestContext(t, http.MethodGet, "/", "", owner)
	c.SetPath("/tasks/:id")
	c.SetParamNames("id")
	c.SetParamValues(taskID.Hex())

	err := NewTaskHandler(svc).Get(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
