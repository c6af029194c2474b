package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionToken is one issued login session. A user holds one entry per
// active session; removing the entry revokes the session.
type SessionToken struct {
	Token string `bson:"token" json:"token"`
}

// User represents an authenticated user in the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"` // Never expose in JSON
	Tokens       []SessionToken     `bson:"tokens" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasToken reports whether token is one of the user's active sessions.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t.Token == token {
			return true
		}
	}
	return false
}
