package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"financetrack/internal/auth"
	"financetrack/internal/core"
)

type (
	SignupInput struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Phone           string `json:"phone"`
	}

	LoginResult struct {
		Token     string
		ExpiresAt time.Time
		User      core.User
	}

	// TokenIssuer signs access tokens for authenticated users.
	TokenIssuer interface {
		Issue(u core.User) (string, time.Time, error)
	}
)

// UserService handles signup, login and profile lookups.
type UserService struct {
	users  UserStore
	hasher auth.Hasher
	tokens TokenIssuer
}

func NewUserService(users UserStore, hasher auth.Hasher, tokens TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// Signup registers a user with the default role.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (core.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = core.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return core.User{}, ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return core.User{}, ErrPasswordsDiffer
	}
	if err := core.ValidatePassword(in.Password); err != nil {
		return core.User{}, err
	}

	u := core.User{
		ID:    uuid.NewString(),
		Name:  in.Name,
		Email: in.Email,
		Phone: strings.TrimSpace(in.Phone),
		Role:  core.RoleUser,
	}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return core.User{}, err
	}
	u.PasswordHash = hash

	created, err := s.users.CreateUser(ctx, u)
	if err != nil {
		return core.User{}, err
	}
	slog.InfoContext(ctx, "User signed up", "user_id", created.ID)
	return created, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = core.NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("compare password: %w", err)
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (core.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.users.ListUsers(ctx)
}
