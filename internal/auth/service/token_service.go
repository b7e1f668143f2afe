package service

//go:generate mockgen -destination=../../mocks/mock_token_codec.go -package=mocks github.com/ShashkovS/ejapp/internal/auth/service TokenCodec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ShashkovS/ejapp/internal/auth/domain"
	autherror "github.com/ShashkovS/ejapp/internal/errors"
)

// TokenCodec issues and verifies the self-contained token pair. Verification
// is stateless: signature plus expiry plus kind, nothing else.
type TokenCodec interface {
	IssuePair(subject string) (*domain.TokenPair, error)
	Encode(subject string, kind domain.TokenKind, ttl time.Duration) (string, error)
	Decode(tokenString string, want domain.TokenKind) (*domain.Claims, error)
}

type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
}

// NewTokenService builds the codec from process-wide configuration. The
// secret is captured once here and never mutated afterwards.
func NewTokenService(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q: only HMAC methods work with a shared secret", algorithm)
	}

	return &TokenService{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (ts *TokenService) Encode(subject string, kind domain.TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(ts.method, claims).SignedString(ts.secret)
}

// Decode verifies the signature and expiry against the verifier's wall clock
// (no leeway) and checks that the token kind matches want. An access token is
// never accepted where a refresh token is required, and vice versa.
func (ts *TokenService) Decode(tokenString string, want domain.TokenKind) (*domain.Claims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, autherror.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, autherror.ErrTokenSignature
		default:
			return nil, autherror.ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, autherror.ErrTokenMalformed
	}

	if domain.TokenKind(claims.Kind) != want {
		return nil, autherror.ErrTokenWrongKind
	}

	decoded := &domain.Claims{
		Subject: claims.Subject,
		Kind:    domain.TokenKind(claims.Kind),
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}

	return decoded, nil
}

// IssuePair mints a fresh access/refresh pair for the subject. It writes
// nothing anywhere: previously issued pairs stay valid until they expire.
func (ts *TokenService) IssuePair(subject string) (*domain.TokenPair, error) {
	accessToken, err := ts.Encode(subject, domain.KindAccess, ts.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := ts.Encode(subject, domain.KindRefresh, ts.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (ts *TokenService) AccessTokenExpiry() time.Duration {
	return ts.accessTTL
}

func (ts *TokenService) RefreshTokenExpiry() time.Duration {
	return ts.refreshTTL
}
