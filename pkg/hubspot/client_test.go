package hubspot_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/natserract/hs/pkg/config"
	"github.com/natserract/hs/pkg/credentials"
	"github.com/natserract/hs/pkg/hubspot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient builds a client pointed at a fake remote, authenticated
// with a static test key.
func newTestClient(t *testing.T, handler http.Handler) *hubspot.HubSpot {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		APIBaseURI: server.URL,
		TokenURI:   server.URL + "/oauth/v1/token",
		APIKey:     "test-api-key",
	}

	store := credentials.NewStore(zap.NewNop())
	store.Register(credentials.NewStaticKeyProvider(credentials.DefaultProviderName, "test-api-key"))

	return hubspot.NewHubSpotWithLogger(cfg, store, zap.NewNop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestSearchContacts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts/search", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body struct {
			Query      string   `json:"query"`
			Limit      int      `json:"limit"`
			Properties []string `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "john@example.com", body.Query)
		assert.Equal(t, 10, body.Limit)
		// Default contact properties are requested when none are given.
		assert.Contains(t, body.Properties, "email")
		assert.Contains(t, body.Properties, "firstname")

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"total": 2,
			"results": []map[string]interface{}{
				{"id": "101", "properties": map[string]string{"email": "john@example.com", "firstname": "John"}},
				{"id": "102", "properties": map[string]string{"email": "john@example.com", "firstname": "Johnny"}},
			},
		})
	}))

	resp, err := client.Search(context.Background(), hubspot.ObjectTypeContacts, "john@example.com", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "101", resp.Results[0].ID)
	assert.Equal(t, "102", resp.Results[1].ID)
	assert.Equal(t, "john@example.com", resp.Results[0].Properties["email"])
}

func TestSearchInvalidObjectType(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the remote")
	}))

	_, err := client.Search(context.Background(), hubspot.ObjectType("tickets"), "q", nil, 10)

	var validationErr *hubspot.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestSearchInvalidLimit(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the remote")
	}))

	for _, limit := range []int{0, -1, 101} {
		_, err := client.Search(context.Background(), hubspot.ObjectTypeContacts, "q", nil, limit)

		var validationErr *hubspot.ValidationError
		require.True(t, errors.As(err, &validationErr), "limit %d", limit)
	}
}

func TestGetCompanyWithProperties(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/crm/v3/objects/companies/123456", r.URL.Path)
		assert.Equal(t, "name,domain", r.URL.Query().Get("properties"))

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"id":         "123456",
			"properties": map[string]string{"name": "Acme", "domain": "acme.com"},
			"createdAt":  "2024-01-15T10:00:00Z",
			"updatedAt":  "2024-03-01T08:30:00Z",
		})
	}))

	obj, err := client.Get(context.Background(), hubspot.ObjectTypeCompanies, "123456", []string{"name", "domain"})
	require.NoError(t, err)
	assert.Equal(t, "123456", obj.ID)
	assert.Equal(t, "Acme", obj.Properties["name"])
	assert.Equal(t, 2024, obj.CreatedAt.Year())
}

func TestGetNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "resource not found",
		})
	}))

	_, err := client.Get(context.Background(), hubspot.ObjectTypeCompanies, "123456", []string{"name", "domain"})

	var notFoundErr *hubspot.NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, hubspot.ObjectTypeCompanies, notFoundErr.ObjectType)
	assert.Equal(t, "123456", notFoundErr.ObjectID)
}

func TestGetOmitsEmptyProperties(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Empty properties means remote defaults, not an empty param.
		assert.False(t, r.URL.Query().Has("properties"))
		writeJSON(t, w, http.StatusOK, map[string]interface{}{"id": "1"})
	}))

	_, err := client.Get(context.Background(), hubspot.ObjectTypeContacts, "1", nil)
	require.NoError(t, err)
}

func TestCreateContact(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts", r.URL.Path)

		var body struct {
			Properties map[string]string `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body.Properties["email"])

		writeJSON(t, w, http.StatusCreated, map[string]interface{}{
			"id":         "456",
			"properties": body.Properties,
		})
	}))

	obj, err := client.Create(context.Background(), hubspot.ObjectTypeContacts, map[string]string{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "456", obj.ID)
	assert.Equal(t, "a@b.com", obj.Properties["email"])
}

func TestCreateDuplicateIsValidationError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]string{
			"status":  "error",
			"message": "Contact already exists. Existing ID: 101",
		})
	}))

	_, err := client.Create(context.Background(), hubspot.ObjectTypeContacts, map[string]string{"email": "a@b.com"})

	var validationErr *hubspot.ValidationError
	require.True(t, errors.As(err, &validationErr), "duplicate must classify as validation, got %v", err)
	assert.Contains(t, validationErr.Message, "already exists")

	var remoteErr *hubspot.RemoteError
	assert.False(t, errors.As(err, &remoteErr))
}

func TestCreateEmptyProperties(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the remote")
	}))

	_, err := client.Create(context.Background(), hubspot.ObjectTypeContacts, nil)

	var validationErr *hubspot.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestUpdateDeal(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/crm/v3/objects/deals/789", r.URL.Path)

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"id":         "789",
			"properties": map[string]string{"dealstage": "closedwon"},
		})
	}))

	obj, err := client.Update(context.Background(), hubspot.ObjectTypeDeals, "789", map[string]string{"dealstage": "closedwon"})
	require.NoError(t, err)
	assert.Equal(t, "789", obj.ID)
	assert.Equal(t, "closedwon", obj.Properties["dealstage"])
}

func TestUpdateEmptyProperties(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the remote")
	}))

	_, err := client.Update(context.Background(), hubspot.ObjectTypeDeals, "789", nil)

	var validationErr *hubspot.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestUpdateNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"status": "error", "message": "resource not found"})
	}))

	_, err := client.Update(context.Background(), hubspot.ObjectTypeDeals, "789", map[string]string{"dealstage": "closedwon"})

	var notFoundErr *hubspot.NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
}

func TestListAssociations(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts/101/associations/companies", r.URL.Path)

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"results": []map[string]string{
				{"id": "201", "type": "contact_to_company"},
				{"id": "202", "type": "contact_to_company"},
			},
		})
	}))

	ids, err := client.ListAssociations(context.Background(), hubspot.ObjectTypeContacts, "101", hubspot.ObjectTypeCompanies)
	require.NoError(t, err)
	assert.Equal(t, []string{"201", "202"}, ids)
}

func TestListAssociationsSourceMissing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"status": "error", "message": "resource not found"})
	}))

	_, err := client.ListAssociations(context.Background(), hubspot.ObjectTypeContacts, "missing", hubspot.ObjectTypeCompanies)

	var notFoundErr *hubspot.NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
}

func TestRateLimitClassifiedForEveryOperation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		writeJSON(t, w, http.StatusTooManyRequests, map[string]string{
			"status":  "error",
			"message": "You have reached your secondly limit.",
		})
	}))

	ctx := context.Background()
	operations := map[string]func() error{
		"search": func() error {
			_, err := client.Search(ctx, hubspot.ObjectTypeContacts, "q", nil, 10)
			return err
		},
		"get": func() error {
			_, err := client.Get(ctx, hubspot.ObjectTypeContacts, "1", nil)
			return err
		},
		"create": func() error {
			_, err := client.Create(ctx, hubspot.ObjectTypeContacts, map[string]string{"email": "a@b.com"})
			return err
		},
		"update": func() error {
			_, err := client.Update(ctx, hubspot.ObjectTypeContacts, "1", map[string]string{"email": "a@b.com"})
			return err
		},
		"associations": func() error {
			_, err := client.ListAssociations(ctx, hubspot.ObjectTypeContacts, "1", hubspot.ObjectTypeCompanies)
			return err
		},
	}

	for name, op := range operations {
		err := op()

		var rateErr *hubspot.RateLimitError
		require.True(t, errors.As(err, &rateErr), "%s must surface RateLimitError, got %v", name, err)
		assert.Equal(t, 7*time.Second, rateErr.RetryAfter, name)

		var remoteErr *hubspot.RemoteError
		assert.False(t, errors.As(err, &remoteErr), "%s must not collapse into RemoteError", name)
	}
}

func TestRejectedPropertySetIsValidationError(t *testing.T) {
	// 409 is covered by the duplicate test; 400 and 422 complete the
	// validation statuses.
	for _, status := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity} {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, status, map[string]string{
				"status":  "error",
				"message": `Property "bogus" does not exist`,
			})
		}))

		_, err := client.Create(context.Background(), hubspot.ObjectTypeContacts, map[string]string{"bogus": "value"})

		var validationErr *hubspot.ValidationError
		require.True(t, errors.As(err, &validationErr), "status %d must classify as validation, got %v", status, err)
		assert.Contains(t, validationErr.Message, "bogus")
	}
}

func TestTimeoutIsRemoteTimeout(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hold the request open until the caller gives up.
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, hubspot.ObjectTypeContacts, "1", nil)

	var remoteErr *hubspot.RemoteError
	require.True(t, errors.As(err, &remoteErr), "deadline must surface RemoteError, got %v", err)
	assert.True(t, remoteErr.Timeout)
}

func TestForbiddenIsRemoteError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]string{
			"status":  "error",
			"message": "This app hasn't been granted all required scopes",
		})
	}))

	_, err := client.Get(context.Background(), hubspot.ObjectTypeContacts, "1", nil)

	var remoteErr *hubspot.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusForbidden, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Message, "scopes")
}

func TestUnregisteredProviderSurfacesLookupError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the remote")
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{APIBaseURI: server.URL, APIKey: "key"}
	store := credentials.NewStore(zap.NewNop())
	client := hubspot.NewHubSpotWithLogger(cfg, store, zap.NewNop())

	_, err := client.Get(context.Background(), hubspot.ObjectTypeContacts, "1", nil)

	var lookupErr *credentials.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, credentials.DefaultProviderName, lookupErr.Name)
}

// fakeProvider substitutes for both real strategies; the operation layer
// only sees the Provider capability.
type fakeProvider struct {
	name  string
	token string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Resolve(context.Context) (credentials.Credential, error) {
	return credentials.Credential{AccessToken: f.token}, nil
}

func TestWithProviderSelectsNamedProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sandbox-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":"1","properties":{}}`)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{APIBaseURI: server.URL, APIKey: "key"}
	store := credentials.NewStore(zap.NewNop())
	store.Register(credentials.NewStaticKeyProvider(credentials.DefaultProviderName, "prod-token"))
	store.Register(&fakeProvider{name: "sandbox", token: "sandbox-token"})

	client := hubspot.NewHubSpotWithLogger(cfg, store, zap.NewNop()).WithProvider("sandbox")

	_, err := client.Get(context.Background(), hubspot.ObjectTypeContacts, "1", nil)
	require.NoError(t, err)
}
