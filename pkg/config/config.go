package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	// DefaultAPIBaseURI is the HubSpot REST API base URL.
	DefaultAPIBaseURI = "https://api.hubapi.com"
	// DefaultTokenURI is the HubSpot OAuth2 token endpoint.
	DefaultTokenURI = "https://api.hubapi.com/oauth/v1/token"
)

type Config struct {
	APIBaseURI string
	TokenURI   string

	// Static key strategy
	APIKey string

	// OAuth2 strategy
	ClientID     string
	ClientSecret string
	RefreshToken string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURI:   os.Getenv("HUBSPOT_API_BASE_URI"),
		TokenURI:     os.Getenv("HUBSPOT_TOKEN_URI"),
		APIKey:       os.Getenv("HUBSPOT_API_KEY"),
		ClientID:     os.Getenv("HUBSPOT_CLIENT_ID"),
		ClientSecret: os.Getenv("HUBSPOT_CLIENT_SECRET"),
		RefreshToken: os.Getenv("HUBSPOT_REFRESH_TOKEN"),
	}

	if cfg.APIBaseURI == "" {
		cfg.APIBaseURI = DefaultAPIBaseURI
	}
	if cfg.TokenURI == "" {
		cfg.TokenURI = DefaultTokenURI
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HasOAuth2 reports whether a complete OAuth2 credential set is configured.
func (c *Config) HasOAuth2() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

func (c *Config) Validate() error {
	if c.APIBaseURI == "" {
		return fmt.Errorf("HUBSPOT_API_BASE_URI is required")
	}
	if c.HasOAuth2() {
		if c.TokenURI == "" {
			return fmt.Errorf("HUBSPOT_TOKEN_URI is required when OAuth2 credentials are set")
		}
		return nil
	}
	if c.ClientID != "" || c.ClientSecret != "" || c.RefreshToken != "" {
		return fmt.Errorf("HUBSPOT_CLIENT_ID, HUBSPOT_CLIENT_SECRET and HUBSPOT_REFRESH_TOKEN must be set together")
	}
	if c.APIKey == "" {
		return fmt.Errorf("HUBSPOT_API_KEY is required when OAuth2 credentials are not set")
	}
	return nil
}
