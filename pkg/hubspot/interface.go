package hubspot

import "context"

// Client defines the interface for HubSpot CRM operations
type Client interface {
	// Search runs a full-text search over objects of the given type
	Search(ctx context.Context, objectType ObjectType, query string, properties []string, limit int) (*SearchResponse, error)

	// Get retrieves a single object by id
	Get(ctx context.Context, objectType ObjectType, objectID string, properties []string) (*Object, error)

	// Create creates a new object from the given property map
	Create(ctx context.Context, objectType ObjectType, properties map[string]string) (*Object, error)

	// Update applies a partial property update to an existing object
	Update(ctx context.Context, objectType ObjectType, objectID string, properties map[string]string) (*Object, error)

	// ListAssociations returns the ids of objects of toObjectType
	// associated with the given object
	ListAssociations(ctx context.Context, objectType ObjectType, objectID string, toObjectType ObjectType) ([]string, error)
}
