package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/model"
)

// UserRepository defines persistence operations over the users collection.
type UserRepository interface {
	Insert(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Replace(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendToken(ctx context.Context, id primitive.ObjectID, token string) error
	RemoveToken(ctx context.Context, id primitive.ObjectID, token string) error
	ClearTokens(ctx context.Context, id primitive.ObjectID) error
}

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository builds a Mongo-backed repository.
func NewUserRepository(database *mongo.Database) UserRepository {
	return &userRepository{collection: database.Collection("users")}
}

func (r *userRepository) Insert(ctx context.Context, user *model.User) error {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Replace persists the whole user document in a single write.
func (r *userRepository) Replace(ctx context.Context, user *model.User) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AppendToken adds a session token atomically so concurrent logins cannot
// clobber each other's sessions.
func (r *userRepository) AppendToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"tokens": model.SessionToken{Token: token}}})
}

func (r *userRepository) RemoveToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.updateByID(ctx, id, bson.M{"$pull": bson.M{"tokens": bson.M{"token": token}}})
}

func (r *userRepository) ClearTokens(ctx context.Context, id primitive.ObjectID) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"tokens": []model.SessionToken{}}})
}

func (r *userRepository) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
