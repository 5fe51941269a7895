package oidc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/stockboard/stockboard/pkg/middleware"
)

// Verifier checks ID tokens issued by an external OpenID provider.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers the provider at issuer and verifies tokens for clientID.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	if strings.TrimSpace(issuer) == "" || strings.TrimSpace(clientID) == "" {
		return nil, errors.New("oidc issuer and client id are required")
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// Verify verifies the raw ID token and returns it as a middleware.Token
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
