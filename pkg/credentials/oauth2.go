package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	httpclient "github.com/natserract/hs/pkg/http"
	"go.uber.org/zap"
)

// expiryMargin is how long before the recorded expiry a cached token is
// treated as stale, so a token is never sent moments before it dies.
const expiryMargin = 60 * time.Second

// OAuth2Config holds the inputs for the refresh-token exchange.
type OAuth2Config struct {
	TokenURI     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// TokenResponse is the HubSpot token endpoint response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// OAuth2Provider resolves credentials by caching an access token and
// renewing it through the refresh-token grant when it expires. The cached
// token is guarded so the provider can be shared across goroutines.
type OAuth2Provider struct {
	name       string
	config     OAuth2Config
	httpClient *httpclient.Client
	logger     *zap.Logger

	mu      sync.RWMutex
	current Credential
}

// NewOAuth2Provider creates a provider seeded with the configured refresh
// token. The first Resolve performs an exchange; there is no cached access
// token until then.
func NewOAuth2Provider(name string, cfg OAuth2Config, logger *zap.Logger) *OAuth2Provider {
	return &OAuth2Provider{
		name:       name,
		config:     cfg,
		httpClient: httpclient.NewClientWithLogger(logger),
		logger:     logger,
		current:    Credential{RefreshToken: cfg.RefreshToken},
	}
}

func (p *OAuth2Provider) Name() string {
	return p.name
}

// Resolve returns the cached access token while it is still comfortably
// unexpired, otherwise performs one refresh exchange and stores the new
// token before returning it.
func (p *OAuth2Provider) Resolve(ctx context.Context) (Credential, error) {
	p.mu.RLock()
	if p.current.AccessToken != "" && !p.current.Expired(expiryMargin) {
		cred := p.current
		remaining := time.Until(cred.ExpiresAt)
		p.mu.RUnlock()
		p.logger.Debug("Using cached access token", zap.Duration("remaining", remaining))
		return cred, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if p.current.AccessToken != "" && !p.current.Expired(expiryMargin) {
		return p.current, nil
	}

	if p.current.RefreshToken == "" {
		p.logger.Error("Access token expired and no refresh token is configured")
		return Credential{}, &AuthError{Reason: ReasonNotConfigured}
	}

	p.logger.Info("Access token expired or not available, refreshing")
	tokenResp, err := p.refresh(ctx, p.current.RefreshToken)
	if err != nil {
		return Credential{}, err
	}

	expiresIn := time.Duration(tokenResp.ExpiresIn) * time.Second
	if expiresIn == 0 {
		expiresIn = 30 * time.Minute // HubSpot access tokens default to 30 minutes
	}

	p.current.AccessToken = tokenResp.AccessToken
	p.current.ExpiresAt = time.Now().Add(expiresIn)
	if tokenResp.RefreshToken != "" {
		// The exchange may rotate the refresh token.
		p.current.RefreshToken = tokenResp.RefreshToken
	}

	p.logger.Info("Successfully refreshed and cached access token",
		zap.String("token", p.current.Redacted()),
		zap.Time("expires_at", p.current.ExpiresAt))

	return p.current, nil
}

// refresh performs the refresh-token grant against the token endpoint.
// HubSpot expects a form-encoded body.
func (p *OAuth2Provider) refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	p.logger.Info("Exchanging refresh token", zap.String("url", p.config.TokenURI))

	form := map[string]string{
		"grant_type":    "refresh_token",
		"client_id":     p.config.ClientID,
		"client_secret": p.config.ClientSecret,
		"refresh_token": refreshToken,
	}

	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	}

	resp, err := p.httpClient.Post(ctx, p.config.TokenURI, headers, form)
	if err != nil {
		p.logger.Error("Token refresh request failed", zap.Error(err))
		return nil, &AuthError{Reason: ReasonRefreshFailed, Err: err}
	}

	if resp.StatusCode != 200 {
		p.logger.Error("Token refresh rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(resp.Body)))
		return nil, &AuthError{
			Reason: ReasonRefreshFailed,
			Err:    fmt.Errorf("token endpoint returned status %d", resp.StatusCode),
		}
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(resp.Body, &tokenResp); err != nil {
		p.logger.Error("Failed to parse token response", zap.Error(err))
		return nil, &AuthError{
			Reason: ReasonRefreshFailed,
			Err:    fmt.Errorf("failed to parse token response: %w", err),
		}
	}

	return &tokenResp, nil
}
