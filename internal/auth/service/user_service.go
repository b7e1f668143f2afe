package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/ShashkovS/ejapp/internal/auth/domain UserRepository,IdentityProvider

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShashkovS/ejapp/internal/auth/domain"
	"github.com/ShashkovS/ejapp/internal/auth/dto"
	"github.com/ShashkovS/ejapp/internal/auth/password"
	autherror "github.com/ShashkovS/ejapp/internal/errors"
)

// dummyHash is a valid bcrypt hash that no real password maps to. Login runs
// a verify against it when the email is unknown, so the unknown-email and
// wrong-password paths do comparable work and stay indistinguishable.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService struct {
	repo     domain.UserRepository
	tokens   TokenCodec
	provider domain.IdentityProvider
}

func NewUserService(repo domain.UserRepository, tokens TokenCodec, provider domain.IdentityProvider) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		provider: provider,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a password identity and issues its first token pair.
// Duplicate emails fail with ErrEmailAlreadyInUse; the insert is a single
// statement, so a failed attempt leaves no partial identity behind.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.TokenPair, error) {
	email := normalizeEmail(input.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index is the real arbiter: a concurrent registration for
	// the same email surfaces here as ErrEmailAlreadyInUse.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.tokens.IssuePair(user.Email)
}

// Login verifies password credentials and issues a token pair. Unknown
// email, wrong password, a federated-only identity and an inactive identity
// all fail with the same ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*domain.TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}

	hash := dummyHash
	if user != nil && user.PasswordHash != "" {
		hash = user.PasswordHash
	}

	ok := password.Verify(input.Password, hash)
	if user == nil || user.PasswordHash == "" || !user.Active || !ok {
		return nil, autherror.ErrInvalidCredentials
	}

	return s.tokens.IssuePair(user.Email)
}

// Federated resolves a provider assertion to an identity, creating one on
// first login. An existing password identity is reused untouched; a created
// one gets a random throwaway password hash so the password path stays
// unusable until the user sets one.
func (s *UserService) Federated(ctx context.Context, code string) (*domain.TokenPair, error) {
	if code == "" {
		return nil, autherror.ErrInvalidAssertion
	}

	email, err := s.provider.Exchange(ctx, code)
	if err != nil || email == "" {
		return nil, autherror.ErrInvalidAssertion
	}
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		hashed, err := password.Hash(randomSecret())
		if err != nil {
			return nil, err
		}

		now := time.Now()
		user = &domain.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: hashed,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.tokens.IssuePair(user.Email)
}

// Refresh exchanges a valid refresh token for a fresh pair. The presented
// token must be refresh-kind and its subject must still resolve to an active
// identity. The old refresh token is not revoked: it stays usable until its
// own expiry, a documented limitation of the stateless design.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.Decode(refreshToken, domain.KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, autherror.ErrUnknownSubject
	}

	return s.tokens.IssuePair(user.Email)
}

func randomSecret() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
