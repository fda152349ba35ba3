package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/session"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/pkg/cryptox"
	"github.com/pairingbuds/buds/pkg/slogx"
)

const minPasswordLength = 8

type UserService struct {
	Store    store.Store
	Sessions *session.Store
}

type RegisterParams struct {
	Email     string
	Name      string
	Password  string
	BirthDate *time.Time
}

// Register creates a new user account with the user role.
// Returns store.ErrAlreadyExists when the email is taken.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Name = strings.TrimSpace(p.Name)

	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return domain.User{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if p.Name == "" {
		return domain.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(p.Password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Email:        p.Email,
		Name:         p.Name,
		PasswordHash: hash,
		BirthDate:    p.BirthDate,
		Role:         domain.RoleUser,
		Active:       true,
	}

	id, err := s.Store.Users().CreateUser(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = id

	slogx.FromContext(ctx).Info("user registered", slog.Int("user_id", id))
	return user, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID int) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns all accounts. Admin use.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// SetActive flips an account's active flag. Deactivation also revokes the
// user's session so outstanding tokens stop working immediately.
func (s *UserService) SetActive(ctx context.Context, userID int, active bool) error {
	if err := s.Store.Users().SetUserActive(ctx, userID, active); err != nil {
		return err
	}

	if !active {
		if err := s.Sessions.DeleteRefreshToken(ctx, userID); err != nil {
			return err
		}
		if _, err := s.Sessions.BumpVersion(ctx, userID); err != nil {
			return err
		}
	}

	slogx.FromContext(ctx).Info("user active flag changed",
		slog.Int("user_id", userID),
		slog.Bool("active", active),
	)
	return nil
}
