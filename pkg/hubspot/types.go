package hubspot

import (
	"time"
)

// ObjectType identifies the kind of CRM object an operation targets.
type ObjectType string

const (
	ObjectTypeContacts  ObjectType = "contacts"
	ObjectTypeCompanies ObjectType = "companies"
	ObjectTypeDeals     ObjectType = "deals"
)

// Valid reports whether the object type is one the CRM API supports.
func (t ObjectType) Valid() bool {
	switch t {
	case ObjectTypeContacts, ObjectTypeCompanies, ObjectTypeDeals:
		return true
	}
	return false
}

// defaultSearchProperties are the properties returned by Search when the
// caller does not ask for specific ones.
var defaultSearchProperties = map[ObjectType][]string{
	ObjectTypeContacts:  {"firstname", "lastname", "email", "phone", "company"},
	ObjectTypeCompanies: {"name", "domain", "industry", "city", "state"},
	ObjectTypeDeals:     {"dealname", "amount", "dealstage", "closedate", "pipeline"},
}

// Object is a CRM record: an opaque id, a string property bag, and the
// remote-assigned metadata.
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Archived   bool              `json:"archived"`
}

// SearchResponse is the result of a Search call. Results preserve the
// remote ordering and are bounded by the requested limit.
type SearchResponse struct {
	Total   int      `json:"total"`
	Results []Object `json:"results"`
}

type searchRequest struct {
	Query      string   `json:"query"`
	Limit      int      `json:"limit"`
	Properties []string `json:"properties"`
}

type propertiesRequest struct {
	Properties map[string]string `json:"properties"`
}

type associationsResponse struct {
	Results []association `json:"results"`
}

type association struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}
