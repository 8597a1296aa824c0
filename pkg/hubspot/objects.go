package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	httpclient "github.com/natserract/hs/pkg/http"
	"go.uber.org/zap"
)

// Get retrieves a single object by id. A non-empty properties slice
// restricts the returned property bag to those keys; when empty the remote
// returns its default properties for the object type.
func (h *HubSpot) Get(ctx context.Context, objectType ObjectType, objectID string, properties []string) (*Object, error) {
	if !objectType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported object type %q", objectType)}
	}

	h.logger.Info("Getting object",
		zap.String("object_type", string(objectType)),
		zap.String("object_id", objectID))

	headers, err := h.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	queryParams := map[string]string{}
	if len(properties) > 0 {
		queryParams["properties"] = strings.Join(properties, ",")
	}

	endpoint, err := httpclient.BuildURL(h.config.APIBaseURI,
		fmt.Sprintf("/crm/v3/objects/%s/%s", objectType, objectID), queryParams)
	if err != nil {
		h.logger.Error("Failed to build URL", zap.Error(err))
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	resp, err := h.httpClient.Get(ctx, endpoint, headers)
	if err != nil {
		h.logger.Error("Get request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, classifyTransport(err)
	}

	if err := classifyResponse(resp, objectType, objectID); err != nil {
		h.logger.Error("Get failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("object_type", string(objectType)),
			zap.String("object_id", objectID))
		return nil, err
	}

	var obj Object
	if err := json.Unmarshal(resp.Body, &obj); err != nil {
		h.logger.Error("Failed to parse object response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse object response: %w", err)
	}

	h.logger.Info("Successfully retrieved object",
		zap.String("object_type", string(objectType)),
		zap.String("object_id", obj.ID))

	return &obj, nil
}

// Create creates a new object from the given property map and returns the
// record with its remote-assigned id. The property map is passed through
// verbatim; which keys are legal is left to the remote API.
func (h *HubSpot) Create(ctx context.Context, objectType ObjectType, properties map[string]string) (*Object, error) {
	if !objectType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported object type %q", objectType)}
	}
	if len(properties) == 0 {
		return nil, &ValidationError{Message: "properties cannot be empty"}
	}

	h.logger.Info("Creating object",
		zap.String("object_type", string(objectType)),
		zap.Int("properties_count", len(properties)))

	headers, err := h.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	endpoint, err := httpclient.BuildURL(h.config.APIBaseURI,
		fmt.Sprintf("/crm/v3/objects/%s", objectType), nil)
	if err != nil {
		h.logger.Error("Failed to build URL", zap.Error(err))
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	resp, err := h.httpClient.Post(ctx, endpoint, headers, propertiesRequest{Properties: properties})
	if err != nil {
		h.logger.Error("Create request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, classifyTransport(err)
	}

	if err := classifyResponse(resp, objectType, ""); err != nil {
		h.logger.Error("Create failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("object_type", string(objectType)))
		return nil, err
	}

	var obj Object
	if err := json.Unmarshal(resp.Body, &obj); err != nil {
		h.logger.Error("Failed to parse create response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse create response: %w", err)
	}

	h.logger.Info("Successfully created object",
		zap.String("object_type", string(objectType)),
		zap.String("object_id", obj.ID))

	return &obj, nil
}

// Update applies a partial property update to an existing object and
// returns the updated record.
func (h *HubSpot) Update(ctx context.Context, objectType ObjectType, objectID string, properties map[string]string) (*Object, error) {
	if !objectType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported object type %q", objectType)}
	}
	if len(properties) == 0 {
		return nil, &ValidationError{Message: "properties cannot be empty"}
	}

	h.logger.Info("Updating object",
		zap.String("object_type", string(objectType)),
		zap.String("object_id", objectID),
		zap.Int("properties_count", len(properties)))

	headers, err := h.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	endpoint, err := httpclient.BuildURL(h.config.APIBaseURI,
		fmt.Sprintf("/crm/v3/objects/%s/%s", objectType, objectID), nil)
	if err != nil {
		h.logger.Error("Failed to build URL", zap.Error(err))
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	resp, err := h.httpClient.Patch(ctx, endpoint, headers, propertiesRequest{Properties: properties})
	if err != nil {
		h.logger.Error("Update request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, classifyTransport(err)
	}

	if err := classifyResponse(resp, objectType, objectID); err != nil {
		h.logger.Error("Update failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("object_type", string(objectType)),
			zap.String("object_id", objectID))
		return nil, err
	}

	var obj Object
	if err := json.Unmarshal(resp.Body, &obj); err != nil {
		h.logger.Error("Failed to parse update response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse update response: %w", err)
	}

	h.logger.Info("Successfully updated object",
		zap.String("object_type", string(objectType)),
		zap.String("object_id", obj.ID))

	return &obj, nil
}
