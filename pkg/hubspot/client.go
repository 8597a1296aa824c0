// Package hubspot provides a client for the HubSpot CRM v3 API.
//
// The CRM API exposes contacts, companies, and deals as records with an
// opaque id and a property bag. This package covers the read/write surface
// of that API: full-text search, single-record reads, creates, partial
// updates, and association lookups between object types.
//
// Authentication is delegated to the credentials package: every call
// resolves a bearer credential from a credential Store, so the same client
// runs unmodified over a static API key or a refreshing OAuth2 token.
package hubspot

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/natserract/hs/pkg/config"
	"github.com/natserract/hs/pkg/credentials"
	httpclient "github.com/natserract/hs/pkg/http"
	"go.uber.org/zap"
)

// HubSpot is the client for the HubSpot CRM API.
type HubSpot struct {
	config       *config.Config
	httpClient   *httpclient.Client
	creds        *credentials.Store
	providerName string
	logger       *zap.Logger
}

// NewHubSpot creates a new HubSpot client with the default production
// logger, resolving credentials under credentials.DefaultProviderName.
func NewHubSpot(cfg *config.Config, creds *credentials.Store) *HubSpot {
	logger, _ := zap.NewProduction()
	return NewHubSpotWithLogger(cfg, creds, logger)
}

// NewHubSpotWithLogger creates a new HubSpot client with a custom logger.
func NewHubSpotWithLogger(cfg *config.Config, creds *credentials.Store, logger *zap.Logger) *HubSpot {
	return &HubSpot{
		config:       cfg,
		httpClient:   httpclient.NewClientWithLogger(logger),
		creds:        creds,
		providerName: credentials.DefaultProviderName,
		logger:       logger,
	}
}

// WithProvider returns a copy of the client that resolves credentials from
// the provider registered under name instead of the default.
func (h *HubSpot) WithProvider(name string) *HubSpot {
	clone := *h
	clone.providerName = name
	return &clone
}

// authHeaders resolves a credential for this call and builds the request
// headers: the bearer token plus a uuid correlation id.
func (h *HubSpot) authHeaders(ctx context.Context) (map[string]string, error) {
	provider, err := h.creds.Get(h.providerName)
	if err != nil {
		h.logger.Error("Failed to look up credential provider",
			zap.String("provider", h.providerName),
			zap.Error(err))
		return nil, err
	}

	cred, err := provider.Resolve(ctx)
	if err != nil {
		h.logger.Error("Failed to resolve credential",
			zap.String("provider", h.providerName),
			zap.Error(err))
		return nil, err
	}

	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", cred.AccessToken),
		"X-Request-Id":  uuid.NewString(),
	}, nil
}
