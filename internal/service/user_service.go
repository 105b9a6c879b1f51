package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
	"store-rating/pkg/utils"
)

type UserService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	cacheDeps
}

func NewUserService(users domain.UserRepository, tokens TokenIssuer, c cache.Store, l *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, cacheDeps: newCacheDeps(c, 0, l)}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

type LoginResult struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

// Register creates a self-service account. The role is always "user".
func (s *UserService) Register(ctx context.Context, in SignupInput) (uint64, error) {
	u, err := s.create(ctx, in, domain.RoleUser)
	if err != nil {
		return 0, err
	}
	signupsTotal.Inc()
	s.invalidate(ctx, KeyDashboardStats)
	return u.ID, nil
}

// CreateAdmin lets an existing admin create another admin account.
func (s *UserService) CreateAdmin(ctx context.Context, requester domain.Identity, in SignupInput) (uint64, error) {
	if !requester.IsAdmin() {
		return 0, domain.Forbidden("Access denied")
	}
	u, err := s.create(ctx, in, domain.RoleAdmin)
	if err != nil {
		return 0, err
	}
	s.log.Info("admin created", zap.Uint64("id", u.ID), zap.Uint64("by", requester.UserID))
	s.invalidate(ctx, KeyDashboardStats)
	return u.ID, nil
}

// EnsureAdmin creates the bootstrap admin unless the email is already taken.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, in SignupInput) (bool, error) {
	existing, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(in.Email))
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if _, err := s.create(ctx, in, domain.RoleAdmin); err != nil {
		// another instance won the race
		if errors.Is(err, domain.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *UserService) create(ctx context.Context, in SignupInput, role domain.Role) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if err := domain.ValidateProfile(name, in.Address); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Validation("email and password are required")
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return nil, domain.Validation("password must be at most 72 bytes")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("email already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Storage("hash password failed", err)
	}
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Address:      in.Address,
		Role:         role,
	}
	// the unique index still catches a concurrent signup for the same email
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate resolves credentials to an identity without issuing a token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	u, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return domain.Identity{}, err
	}
	if u == nil {
		return domain.Identity{}, domain.NotFound("User not found")
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return domain.Identity{}, domain.Unauthorized("Invalid password")
	}
	return domain.Identity{UserID: u.ID, Role: u.Role}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	id, err := s.Authenticate(ctx, email, password)
	if err != nil {
		loginsTotal.WithLabelValues("rejected").Inc()
		return LoginResult{}, err
	}
	tok, err := s.tokens.Issue(id.UserID, string(id.Role))
	if err != nil {
		return LoginResult{}, domain.Storage("issue token failed", err)
	}
	loginsTotal.WithLabelValues("ok").Inc()
	return LoginResult{Token: tok, Role: id.Role}, nil
}

type UserPage struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

// List pages through accounts for the admin console. limit is clamped to
// [1,100] with 20 as the default.
func (s *UserService) List(ctx context.Context, requester domain.Identity, q string, offset, limit int) (UserPage, error) {
	if !requester.IsAdmin() {
		return UserPage{}, domain.Forbidden("Access denied")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.users.List(ctx, q, offset, limit)
	if err != nil {
		return UserPage{}, err
	}
	return UserPage{Total: total, Items: items}, nil
}
