package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mrjaiswar/task-app/internal/auth"
	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/mail"
	"github.com/mrjaiswar/task-app/internal/model"
	"github.com/mrjaiswar/task-app/internal/repository"
)

const mailTimeout = 30 * time.Second

// UserUpdate is a typed partial update over the allowed profile fields.
// A nil field is untouched; the JSON decoder rejects any other field name
// before this struct is ever populated.
type UserUpdate struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=7"`
}

// UserService handles account lifecycle and session operations.
type UserService interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, user *model.User, token string) error
	LogoutAll(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User, update UserUpdate) (*model.User, error)
	Delete(ctx context.Context, user *model.User) (*model.User, error)
}

type userService struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	jwtService *auth.JWTService
	mailer     mail.Mailer
}

// NewUserService creates a user service.
func NewUserService(users repository.UserRepository, hasher *auth.PasswordHasher, jwtService *auth.JWTService, mailer mail.Mailer) UserService {
	return &userService{
		users:      users,
		hasher:     hasher,
		jwtService: jwtService,
		mailer:     mailer,
	}
}

// Signup creates a user with a hashed password, opens the first session and
// fires the welcome mail.
func (s *userService) Signup(ctx context.Context, name, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashed,
		Tokens:       []model.SessionToken{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.notify(user.Name, user.Email, s.mailer.SendWelcome)
	return user, token, nil
}

// Login verifies credentials and opens a new session. The same generic
// error covers an unknown email and a wrong password.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the presenting session only.
func (s *userService) Logout(ctx context.Context, user *model.User, token string) error {
	return s.users.RemoveToken(ctx, user.ID, token)
}

// LogoutAll revokes every session. The user record itself survives.
func (s *userService) LogoutAll(ctx context.Context, user *model.User) error {
	return s.users.ClearTokens(ctx, user.ID)
}

// Update applies the partial update in memory and persists the whole record
// in one acknowledged write. The password is re-hashed only when the field
// is present in the request.
func (s *userService) Update(ctx context.Context, user *model.User, update UserUpdate) (*model.User, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
		}
		user.Name = name
	}
	if update.Email != nil {
		user.Email = normalizeEmail(*update.Email)
	}
	if update.Password != nil {
		hashed, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Replace(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and fires the cancellation mail. Previously
// issued tokens die with the record: they can no longer resolve a user.
func (s *userService) Delete(ctx context.Context, user *model.User) (*model.User, error) {
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return nil, err
	}
	s.notify(user.Name, user.Email, s.mailer.SendCancellation)
	return user, nil
}

func (s *userService) openSession(ctx context.Context, user *model.User) (string, error) {
	token, err := s.jwtService.Issue(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if err := s.users.AppendToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	user.Tokens = append(user.Tokens, model.SessionToken{Token: token})
	return token, nil
}

// notify fires a lifecycle mail without blocking the request. The request
// context is gone by the time the mail goes out, so the send gets its own.
func (s *userService) notify(name, email string, send func(context.Context, string, string) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := send(ctx, name, email); err != nil {
			log.Printf("send mail to %s: %v", email, err)
		}
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
