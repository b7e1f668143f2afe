// Package provider holds identity-provider implementations for the federated
// login path. The real OAuth handshake is an external collaborator; the
// wired implementation here trusts the callback and maps any non-empty code
// to a fixed account, which is enough for local and end-to-end runs.
package provider

import (
	"context"

	autherror "github.com/ShashkovS/ejapp/internal/errors"
)

const googleStubEmail = "googleuser@example.com"

type GoogleStub struct{}

func NewGoogleStub() *GoogleStub {
	return &GoogleStub{}
}

func (p *GoogleStub) Exchange(_ context.Context, code string) (string, error) {
	if code == "" {
		return "", autherror.ErrInvalidAssertion
	}
	return googleStubEmail, nil
}
