package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/model"
)

// stubResolver serves users from memory.
type stubResolver struct {
	users map[primitive.ObjectID]*model.User
}

func (s *stubResolver) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, apperrors.ErrNotFound
}

func newProtectedApp(jwtService *JWTService, resolver UserResolver) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		user := CurrentUser(c)
		return c.JSON(http.StatusOK, map[string]string{
			"email": user.Email,
			"token": CurrentToken(c),
		})
	}, Middleware(jwtService, resolver))
	return e
}

func TestMiddleware(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	userID := primitive.NewObjectID()
	token, err := jwtService.Issue(userID.Hex())
	assert.NoError(t, err)

	user := &model.User{
		ID:     userID,
		Email:  "mike@example.com",
		Tokens: []model.SessionToken{{Token: token}},
	}
	resolver := &stubResolver{users: map[primitive.ObjectID]*model.User{userID: user}}

	revokedID := primitive.NewObjectID()
	revokedToken, err := jwtService.Issue(revokedID.Hex())
	assert.NoError(t, err)
	resolver.users[revokedID] = &model.User{ID: revokedID, Email: "revoked@example.com"}

	deletedToken, err := jwtService.Issue(primitive.NewObjectID().Hex())
	assert.NoError(t, err)

	foreignToken, err := NewJWTService("other-secret").Issue(userID.Hex())
	assert.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "no authorization header",
			authHeader: "",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong signing secret",
			authHeader: "Bearer " + foreignToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "well signed but user deleted",
			authHeader: "Bearer " + deletedToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "well signed but revoked",
			authHeader: "Bearer " + revokedToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid session",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
		},
	}

	e := newProtectedApp(jwtService, resolver)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), "mike@example.com")
				assert.Contains(t, rec.Body.String(), token)
			}
		})
	}
}

func TestMiddleware_ReplayAfterLogout(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	userID := primitive.NewObjectID()
	token, err := jwtService.Issue(userID.Hex())
	assert.NoError(t, err)

	user := &model.User{
		ID:     userID,
		Email:  "mike@example.com",
		Tokens: []model.SessionToken{{Token: token}},
	}
	resolver := &stubResolver{users: map[primitive.ObjectID]*model.User{userID: user}}
	e := newProtectedApp(jwtService, resolver)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logging out removes the token from the list. The signature still
	// verifies, but the replay must be rejected.
	user.Tokens = nil

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
