package session

import (
	"context"
	"fmt"
)

// Identity is what an OAuth provider asserts about the signed-in person.
type Identity struct {
	Provider       string
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
}

// OAuthProvider is implemented by every external sign-in provider.
// Implementations return identity facts only.
type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string, codeChallenge string) string
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*Identity, error)
}

// Registry looks providers up by name.
type Registry struct {
	providers map[string]OAuthProvider
}

func NewRegistry(list ...OAuthProvider) *Registry {
	m := make(map[string]OAuthProvider)
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}
