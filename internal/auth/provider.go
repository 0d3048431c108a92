// Package auth resolves the calling user's identity. The service sits behind
// an authenticating proxy (oauth2-proxy style) that injects identity headers;
// session mechanics live in that proxy, not here.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/config"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

// Provider resolves the authenticated user for a request. Implementations
// must return apperrors.ErrUnauthorized (possibly wrapped) when no valid
// identity is present.
type Provider interface {
	Authenticate(r *http.Request) (*model.User, error)
}

// HeaderProvider trusts identity headers set by the fronting auth proxy.
type HeaderProvider struct {
	userIDHeader string
	emailHeader  string
	nameHeader   string
}

// NewHeaderProvider builds a HeaderProvider from the auth config section.
func NewHeaderProvider(cfg config.Config) *HeaderProvider {
	return &HeaderProvider{
		userIDHeader: cfg.Auth.UserIDHeader,
		emailHeader:  cfg.Auth.EmailHeader,
		nameHeader:   cfg.Auth.NameHeader,
	}
}

// Authenticate builds the user profile carried by the identity headers.
func (p *HeaderProvider) Authenticate(r *http.Request) (*model.User, error) {
	userID := strings.TrimSpace(r.Header.Get(p.userIDHeader))
	if userID == "" {
		return nil, fmt.Errorf("missing %s header: %w", p.userIDHeader, apperrors.ErrUnauthorized)
	}

	user := &model.User{
		ID:    userID,
		Email: strings.TrimSpace(r.Header.Get(p.emailHeader)),
	}
	if name := strings.TrimSpace(r.Header.Get(p.nameHeader)); name != "" {
		parts := strings.Fields(name)
		user.FirstName = parts[0]
		if len(parts) > 1 {
			user.LastName = strings.Join(parts[1:], " ")
		}
	}
	return user, nil
}
