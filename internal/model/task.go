package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxDescriptionLength bounds the task description field.
const MaxDescriptionLength = 50

// Task represents a single to-do item. Owner is set by the server from the
// authenticated identity and never changes after creation.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Description string             `bson:"description" json:"description"`
	Completed   bool               `bson:"completed" json:"completed"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
