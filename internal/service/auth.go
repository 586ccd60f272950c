package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"altis.app/tracker/common/id"
	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/store"
)

type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	OrganizationID int64
}

// Session is a signed-in user together with their token.
type Session struct {
	User  *model.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context, userID int64) (*model.User, error)
}

type authService struct {
	userStore store.UserStore
	orgStore  store.OrganizationStore
	hasher    auth.PasswordHasher
	tokens    *auth.TokenIssuer
}

func NewAuthService(userStore store.UserStore, orgStore store.OrganizationStore, hasher auth.PasswordHasher, tokens *auth.TokenIssuer) AuthService {
	return &authService{
		userStore: userStore,
		orgStore:  orgStore,
		hasher:    hasher,
		tokens:    tokens,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" || in.OrganizationID == 0 {
		return nil, ErrMissingFields
	}

	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to check existing user", "error", err)
		return nil, fmt.Errorf("checking email: %w", err)
	}

	if _, err := s.orgStore.GetByID(ctx, in.OrganizationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		slog.ErrorContext(ctx, "failed to load organization", "error", err, "organization_id", in.OrganizationID)
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:             id.New(),
		Email:          email,
		PasswordHash:   hash,
		Name:           name,
		OrganizationID: in.OrganizationID,
	}
	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		slog.ErrorContext(ctx, "failed to create user", "error", err, "organization_id", in.OrganizationID)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "organization_id", user.OrganizationID)
	return s.session(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userStore.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		slog.ErrorContext(ctx, "failed to load user for login", "error", err)
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("comparing password: %w", err)
	}

	return s.session(user)
}

func (s *authService) Me(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *authService) session(user *model.User) (*Session, error) {
	token, err := s.tokens.Issue(auth.Identity{
		UserID:         user.ID,
		Email:          user.Email,
		OrganizationID: user.OrganizationID,
	})
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
