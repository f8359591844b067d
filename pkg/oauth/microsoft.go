package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

var (
	ErrInvalidCode        = errors.New("invalid authorization code")
	ErrFailedToGetUser    = errors.New("failed to get user info from Microsoft")
	ErrInvalidState       = errors.New("invalid state parameter")
	ErrOAuthNotConfigured = errors.New("Microsoft OAuth is not configured")
)

// MicrosoftUserInfo represents user information from Microsoft Graph
type MicrosoftUserInfo struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	GivenName         string `json:"givenName"`
	Surname           string `json:"surname"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// Email returns the best available email address. Some tenants leave the
// mail attribute empty and only set the principal name.
func (u *MicrosoftUserInfo) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// MicrosoftOAuthService handles Microsoft (Entra ID) OAuth operations.
// Schools on Microsoft 365 sign their staff in with their work accounts.
type MicrosoftOAuthService struct {
	config             *oauth2.Config
	frontendSuccessURL string
	frontendErrorURL   string
}

// MicrosoftOAuthConfig holds the configuration for Microsoft OAuth
type MicrosoftOAuthConfig struct {
	ClientID           string
	ClientSecret       string
	RedirectURL        string
	TenantID           string // "common" accepts any directory
	FrontendSuccessURL string
	FrontendErrorURL   string
}

// NewMicrosoftOAuthService creates a new Microsoft OAuth service
func NewMicrosoftOAuthService(cfg MicrosoftOAuthConfig) *MicrosoftOAuthService {
	tenant := cfg.TenantID
	if tenant == "" {
		tenant = "common"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"openid",
			"profile",
			"email",
			"User.Read",
		},
		Endpoint: microsoft.AzureADEndpoint(tenant),
	}

	return &MicrosoftOAuthService{
		config:             config,
		frontendSuccessURL: cfg.FrontendSuccessURL,
		frontendErrorURL:   cfg.FrontendErrorURL,
	}
}

// IsConfigured checks if Microsoft OAuth is properly configured
func (s *MicrosoftOAuthService) IsConfigured() bool {
	return s.config.ClientID != "" && s.config.ClientSecret != ""
}

// GetAuthURL returns the URL to redirect the user to for Microsoft consent
func (s *MicrosoftOAuthService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode exchanges the authorization code for tokens
func (s *MicrosoftOAuthService) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	return token, nil
}

// GetUserInfo fetches user information from Microsoft Graph using the access token
func (s *MicrosoftOAuthService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*MicrosoftUserInfo, error) {
	client := s.config.Client(ctx, token)

	resp, err := client.Get("https://graph.microsoft.com/v1.0/me")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrFailedToGetUser, resp.StatusCode, string(body))
	}

	var userInfo MicrosoftUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}

	return &userInfo, nil
}

// GetFrontendSuccessURL builds the frontend redirect carrying the issued
// tokens as query parameters.
func (s *MicrosoftOAuthService) GetFrontendSuccessURL(accessToken, refreshToken string) string {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("refresh_token", refreshToken)
	return s.frontendSuccessURL + "?" + q.Encode()
}

// GetFrontendErrorURL builds the frontend redirect for a failed OAuth
// flow, with the failure reason attached.
func (s *MicrosoftOAuthService) GetFrontendErrorURL(reason string) string {
	q := url.Values{}
	q.Set("error", reason)
	return s.frontendErrorURL + "?" + q.Encode()
}
