package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/model"
)

// ListOptions narrows and orders an owner's task listing. Zero values mean
// no filter, no sort, no pagination.
type ListOptions struct {
	Completed *bool
	SortField string
	SortDesc  bool
	Limit     int64
	Skip      int64
}

// TaskRepository defines persistence operations over the tasks collection.
// Every read and write is keyed by owner; there is no way to build a query
// that crosses owners.
type TaskRepository interface {
	Insert(ctx context.Context, task *model.Task) error
	FindByOwnerAndID(ctx context.Context, owner, id primitive.ObjectID) (*model.Task, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID, opts ListOptions) ([]model.Task, error)
	Replace(ctx context.Context, task *model.Task) error
	DeleteByOwnerAndID(ctx context.Context, owner, id primitive.ObjectID) (*model.Task, error)
}

type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository builds a Mongo-backed repository.
func NewTaskRepository(database *mongo.Database) TaskRepository {
	return &taskRepository{collection: database.Collection("tasks")}
}

func (r *taskRepository) Insert(ctx context.Context, task *model.Task) error {
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		task.ID = id
	}
	return nil
}

func (r *taskRepository) FindByOwnerAndID(ctx context.Context, owner, id primitive.ObjectID) (*model.Task, error) {
	var task model.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Another owner's task and a missing task are indistinguishable.
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID, opts ListOptions) ([]model.Task, error) {
	filter := bson.M{"owner": owner}
	if opts.Completed != nil {
		filter["completed"] = *opts.Completed
	}

	findOpts := options.Find()
	if opts.SortField != "" {
		direction := 1
		if opts.SortDesc {
			direction = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: direction}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []model.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Replace persists the whole task document in a single write, still scoped
// to the owner so a task can never migrate between users.
func (r *taskRepository) Replace(ctx context.Context, task *model.Task) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID, "owner": task.Owner}, task)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByOwnerAndID removes the task and returns its prior state.
func (r *taskRepository) DeleteByOwnerAndID(ctx context.Context, owner, id primitive.ObjectID) (*model.Task, error) {
	var task model.Task
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id, "owner": owner}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}
