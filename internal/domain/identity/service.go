package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuscare/campuscare/internal/platform/auth"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidRole        = errors.New("invalid role")
)

// Service holds identity business logic: registration, credential checks
// and token issuance. Token revocation on logout goes through the shared
// in-memory revocation store.
type Service struct {
	repo       UserRepository
	signingKey []byte
	tokenTTL   time.Duration
	revocation *auth.TokenRevocationStore
}

func NewService(repo UserRepository, signingKey []byte, tokenTTL time.Duration, revocation *auth.TokenRevocationStore) *Service {
	return &Service{repo: repo, signingKey: signingKey, tokenTTL: tokenTTL, revocation: revocation}
}

// RegisterInput carries self-service signup fields. Role is fixed to
// "user"; elevated roles are created by an admin.
type RegisterInput struct {
	Email    string  `json:"email"`
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	h := string(hash)
	u := &User{
		Email:        email,
		Username:     in.Username,
		Phone:        in.Phone,
		Role:         RoleUser,
		PasswordHash: &h,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CreateUserInput carries the admin/legacy user creation payload. UserType
// maps onto the role column and defaults to "user". Password is optional:
// accounts without one cannot log in until a password is set.
type CreateUserInput struct {
	Email    string  `json:"email"`
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	UserType string  `json:"user_type"`
	Password *string `json:"password"`
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	role := in.UserType
	if role == "" {
		role = RoleUser
	}
	if !validRoles[role] {
		return nil, ErrInvalidRole
	}
	u := &User{
		Email:    email,
		Username: in.Username,
		Phone:    in.Phone,
		Role:     role,
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		u.PasswordHash = &h
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// LoginResult bundles the signed token with its subject for the response
// body.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// Login accepts either an email address or a username as the identifier.
// A bcrypt compare runs even when the account has no password so the two
// failure modes are not distinguishable by timing.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	var (
		u   *User
		err error
	)
	if strings.Contains(identifier, "@") {
		u, err = s.repo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		u, err = s.repo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvali"), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u.PasswordHash == nil {
		bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvali"), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	token, claims, err := auth.IssueToken(s.signingKey, u.ID.String(), u.Role, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u}, nil
}

// Logout revokes the token's JTI until its natural expiry.
func (s *Service) Logout(claims *auth.Claims) {
	if claims == nil || s.revocation == nil {
		return
	}
	expires := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	s.revocation.Revoke(claims.ID, expires)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByUsername backs the legacy user lookup endpoint.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}
