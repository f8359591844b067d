package oauth

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *MicrosoftOAuthService {
	return NewMicrosoftOAuthService(MicrosoftOAuthConfig{
		ClientID:           "client-id",
		ClientSecret:       "client-secret",
		RedirectURL:        "https://api.escolarapp.com/auth/microsoft/callback",
		FrontendSuccessURL: "https://app.escolarapp.com/auth/success",
		FrontendErrorURL:   "https://app.escolarapp.com/auth/error",
	})
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, newTestService().IsConfigured())

	empty := NewMicrosoftOAuthService(MicrosoftOAuthConfig{})
	assert.False(t, empty.IsConfigured())
}

func TestGetFrontendSuccessURLCarriesTokens(t *testing.T) {
	s := newTestService()

	raw := s.GetFrontendSuccessURL("access-123", "refresh-456")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/auth/success", u.Path)
	assert.Equal(t, "access-123", u.Query().Get("access_token"))
	assert.Equal(t, "refresh-456", u.Query().Get("refresh_token"))
}

func TestGetFrontendErrorURLCarriesReason(t *testing.T) {
	s := newTestService()

	raw := s.GetFrontendErrorURL("login_failed")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/auth/error", u.Path)
	assert.Equal(t, "login_failed", u.Query().Get("error"))
}

func TestGetAuthURLIncludesState(t *testing.T) {
	s := newTestService()

	raw := s.GetAuthURL("state-token")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "state-token", u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
}

func TestEmailFallsBackToPrincipalName(t *testing.T) {
	withMail := &MicrosoftUserInfo{Mail: "ana@colegio.edu.mx", UserPrincipalName: "ana_colegio#EXT@tenant.onmicrosoft.com"}
	assert.Equal(t, "ana@colegio.edu.mx", withMail.Email())

	withoutMail := &MicrosoftUserInfo{UserPrincipalName: "ana@colegio.edu.mx"}
	assert.Equal(t, "ana@colegio.edu.mx", withoutMail.Email())
}
