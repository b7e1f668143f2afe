package domain

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string // empty for federated-only identities
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Claims is the decoded payload of a verified token.
type Claims struct {
	Subject   string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}
