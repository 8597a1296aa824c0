package hubspot

import (
	"context"
	"encoding/json"
	"fmt"

	httpclient "github.com/natserract/hs/pkg/http"
	"go.uber.org/zap"
)

// Search runs a full-text search over objects of the given type and
// returns up to limit matches in remote order. An empty properties slice
// requests the default property set for the object type.
func (h *HubSpot) Search(ctx context.Context, objectType ObjectType, query string, properties []string, limit int) (*SearchResponse, error) {
	if !objectType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported object type %q", objectType)}
	}
	if limit < 1 || limit > 100 {
		return nil, &ValidationError{Message: "limit must be between 1 and 100"}
	}

	h.logger.Info("Searching objects",
		zap.String("object_type", string(objectType)),
		zap.Int("limit", limit))

	headers, err := h.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	props := properties
	if len(props) == 0 {
		props = defaultSearchProperties[objectType]
	}

	endpoint, err := httpclient.BuildURL(h.config.APIBaseURI,
		fmt.Sprintf("/crm/v3/objects/%s/search", objectType), nil)
	if err != nil {
		h.logger.Error("Failed to build URL", zap.Error(err))
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	body := searchRequest{
		Query:      query,
		Limit:      limit,
		Properties: props,
	}

	resp, err := h.httpClient.Post(ctx, endpoint, headers, body)
	if err != nil {
		h.logger.Error("Search request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, classifyTransport(err)
	}

	if err := classifyResponse(resp, objectType, ""); err != nil {
		h.logger.Error("Search failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("object_type", string(objectType)))
		return nil, err
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(resp.Body, &searchResp); err != nil {
		h.logger.Error("Failed to parse search response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	h.logger.Info("Successfully searched objects",
		zap.String("object_type", string(objectType)),
		zap.Int("total", searchResp.Total),
		zap.Int("results_count", len(searchResp.Results)))

	return &searchResp, nil
}
