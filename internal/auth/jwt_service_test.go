package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := primitive.NewObjectID().Hex()

	token, err := service.Issue(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	resolved, err := service.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, resolved)
}

func TestJWTService_IssueProducesDistinctTokens(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := primitive.NewObjectID().Hex()

	first, err := service.Issue(userID)
	assert.NoError(t, err)
	second, err := service.Issue(userID)
	assert.NoError(t, err)

	// Each session gets its own token so they can be revoked independently.
	assert.NotEqual(t, first, second)
}

func TestJWTService_Verify(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := primitive.NewObjectID().Hex()

	token, err := service.Issue(userID)
	assert.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "malformed token",
			token: "not.a.jwt",
		},
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "tampered token",
			token: token + "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTService_VerifyRejectsWrongSecret(t *testing.T) {
	userID := primitive.NewObjectID().Hex()

	token, err := NewJWTService("right-secret").Issue(userID)
	assert.NoError(t, err)

	_, err = NewJWTService("wrong-secret").Verify(token)
	assert.Error(t, err)
}
