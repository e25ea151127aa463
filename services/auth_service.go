package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"shopez/auth"
	"shopez/models"
	"shopez/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type AuthService struct {
	users     repository.UserRepository
	blacklist repository.TokenBlacklist
	tokens    *auth.TokenManager
	logger    *zap.Logger
	now       func() time.Time
	cost      int
}

func NewAuthService(users repository.UserRepository, blacklist repository.TokenBlacklist, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		logger:    orNop(logger),
		now:       time.Now,
		cost:      bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer account. The role is never taken from the
// request.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in, models.RoleCustomer)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, &ServerError{Op: "hash password", Err: err}
	}
	u := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		Role:      role,
		CreatedAt: s.now(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: "email already registered"}
		}
		return nil, storageError(s.logger, "insert user", "", err)
	}
	return u, nil
}

// SeedAdmin makes sure an operator account exists for email. An existing
// account with that email is left untouched.
func (s *AuthService) SeedAdmin(ctx context.Context, username, email, password string) error {
	in := RegisterInput{Username: strings.TrimSpace(username), Email: normalizeEmail(email), Password: password}
	if err := validateStruct(in); err != nil {
		return err
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return storageError(s.logger, "find user", "", err)
	}
	if _, err := s.createUser(ctx, in, models.RoleAdmin); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return nil
		}
		return err
	}
	s.logger.Info("seeded admin account", zap.String("email", in.Email))
	return nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	bad := &UnauthorizedError{Message: "invalid email or password"}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, bad
	}
	if err != nil {
		return nil, storageError(s.logger, "find user", "", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		return nil, bad
	}

	token, exp, err := s.tokens.Issue(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, &ServerError{Op: "issue token", Err: err}
	}
	u.Password = ""
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Logout revokes token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return &UnauthorizedError{Message: "invalid or expired token"}
	}
	if err := s.blacklist.Add(ctx, token, claims.ExpiresAt.Time); err != nil {
		return storageError(s.logger, "blacklist token", "", err)
	}
	return nil
}

// Authenticate resolves a bearer token to the caller it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Actor, error) {
	if token == "" {
		return nil, &UnauthorizedError{Message: "token required"}
	}
	revoked, err := s.blacklist.Contains(ctx, token)
	if err != nil {
		return nil, storageError(s.logger, "check token blacklist", "", err)
	}
	if revoked {
		return nil, &UnauthorizedError{Message: "token has been revoked"}
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, &UnauthorizedError{Message: "invalid or expired token"}
	}
	return &Actor{UserID: claims.UserID, Role: claims.Role}, nil
}
