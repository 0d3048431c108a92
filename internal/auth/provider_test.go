package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/config"
)

func newTestProvider() *HeaderProvider {
	cfg := config.Config{}
	cfg.Auth.UserIDHeader = "X-Auth-Request-User"
	cfg.Auth.EmailHeader = "X-Auth-Request-Email"
	cfg.Auth.NameHeader = "X-Auth-Request-Preferred-Username"
	return NewHeaderProvider(cfg)
}

func TestAuthenticate(t *testing.T) {
	p := newTestProvider()

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.Header.Set("X-Auth-Request-User", "user-42")
	req.Header.Set("X-Auth-Request-Email", "ada@example.com")
	req.Header.Set("X-Auth-Request-Preferred-Username", "Ada King Lovelace")

	user, err := p.Authenticate(req)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "King Lovelace", user.LastName)
}

func TestAuthenticate_SingleName(t *testing.T) {
	p := newTestProvider()

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.Header.Set("X-Auth-Request-User", "user-42")
	req.Header.Set("X-Auth-Request-Preferred-Username", "Ada")

	user, err := p.Authenticate(req)
	assert.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Empty(t, user.LastName)
}

func TestAuthenticate_MissingUserHeader(t *testing.T) {
	p := newTestProvider()

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.Header.Set("X-Auth-Request-User", "   ")

	user, err := p.Authenticate(req)
	assert.Nil(t, user)
	assert.True(t, apperrors.IsUnauthorizedError(err))
}
