package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/model"
	"github.com/mrjaiswar/task-app/internal/repository"
)

// TaskCreate carries the client-settable fields of a new task. Owner is not
// among them: it always comes from the authenticated identity.
type TaskCreate struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// TaskUpdate is a typed partial update over the allowed task fields. A nil
// field is untouched; the JSON decoder rejects any other field name before
// this struct is ever populated.
type TaskUpdate struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TaskService exposes owner-scoped task operations. Every method takes the
// owner from the caller, never from request data.
type TaskService interface {
	Create(ctx context.Context, owner primitive.ObjectID, input TaskCreate) (*model.Task, error)
	List(ctx context.Context, owner primitive.ObjectID, opts repository.ListOptions) ([]model.Task, error)
	GetByID(ctx context.Context, owner primitive.ObjectID, id string) (*model.Task, error)
	Update(ctx context.Context, owner primitive.ObjectID, id string, update TaskUpdate) (*model.Task, error)
	Delete(ctx context.Context, owner primitive.ObjectID, id string) (*model.Task, error)
}

type taskService struct {
	tasks repository.TaskRepository
}

// NewTaskService creates a task service.
func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) Create(ctx context.Context, owner primitive.ObjectID, input TaskCreate) (*model.Task, error) {
	description, err := validDescription(input.Description)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &model.Task{
		Description: description,
		Completed:   input.Completed,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, owner primitive.ObjectID, opts repository.ListOptions) ([]model.Task, error) {
	return s.tasks.FindByOwner(ctx, owner, opts)
}

func (s *taskService) GetByID(ctx context.Context, owner primitive.ObjectID, id string) (*model.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.tasks.FindByOwnerAndID(ctx, owner, taskID)
}

// Update fetches the owner's task, applies the partial update in memory and
// persists the whole document in one acknowledged write.
func (s *taskService) Update(ctx context.Context, owner primitive.ObjectID, id string, update TaskUpdate) (*model.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByOwnerAndID(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}

	if update.Description != nil {
		description, err := validDescription(*update.Description)
		if err != nil {
			return nil, err
		}
		task.Description = description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, owner primitive.ObjectID, id string) (*model.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.tasks.DeleteByOwnerAndID(ctx, owner, taskID)
}

// parseID validates identifier syntax before the store is ever consulted.
func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrInvalidID
	}
	return objectID, nil
}

func validDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if description == "" {
		return "", fmt.Errorf("%w: description must not be empty", apperrors.ErrValidation)
	}
	if len(description) > model.MaxDescriptionLength {
		return "", fmt.Errorf("%w: description exceeds %d characters", apperrors.ErrValidation, model.MaxDescriptionLength)
	}
	return description, nil
}
