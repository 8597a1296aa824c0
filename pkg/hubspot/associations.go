package hubspot

import (
	"context"
	"encoding/json"
	"fmt"

	httpclient "github.com/natserract/hs/pkg/http"
	"go.uber.org/zap"
)

// ListAssociations returns the ids of objects of toObjectType associated
// with the given object, in remote order.
func (h *HubSpot) ListAssociations(ctx context.Context, objectType ObjectType, objectID string, toObjectType ObjectType) ([]string, error) {
	if !objectType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported object type %q", objectType)}
	}
	if !toObjectType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported object type %q", toObjectType)}
	}

	h.logger.Info("Listing associations",
		zap.String("object_type", string(objectType)),
		zap.String("object_id", objectID),
		zap.String("to_object_type", string(toObjectType)))

	headers, err := h.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	endpoint, err := httpclient.BuildURL(h.config.APIBaseURI,
		fmt.Sprintf("/crm/v3/objects/%s/%s/associations/%s", objectType, objectID, toObjectType), nil)
	if err != nil {
		h.logger.Error("Failed to build URL", zap.Error(err))
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	resp, err := h.httpClient.Get(ctx, endpoint, headers)
	if err != nil {
		h.logger.Error("List associations request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, classifyTransport(err)
	}

	if err := classifyResponse(resp, objectType, objectID); err != nil {
		h.logger.Error("List associations failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("object_type", string(objectType)),
			zap.String("object_id", objectID))
		return nil, err
	}

	var assocResp associationsResponse
	if err := json.Unmarshal(resp.Body, &assocResp); err != nil {
		h.logger.Error("Failed to parse associations response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse associations response: %w", err)
	}

	ids := make([]string, 0, len(assocResp.Results))
	for _, assoc := range assocResp.Results {
		ids = append(ids, assoc.ID)
	}

	h.logger.Info("Successfully listed associations",
		zap.String("object_type", string(objectType)),
		zap.String("object_id", objectID),
		zap.Int("count", len(ids)))

	return ids, nil
}
