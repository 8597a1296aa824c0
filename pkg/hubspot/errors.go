package hubspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	httpclient "github.com/natserract/hs/pkg/http"
)

// ValidationError means the request was rejected before or by the remote:
// an unsupported object type, a bad limit, or a property set the API
// refused (duplicate email, missing required field).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError means the addressed object id does not exist.
type NotFoundError struct {
	ObjectType ObjectType
	ObjectID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.ObjectType, e.ObjectID)
}

// RateLimitError means the remote signaled throttling. It is kept distinct
// from RemoteError so callers can apply their own backoff. RetryAfter is
// zero when the remote did not say how long to wait.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "rate limit exceeded"
}

// RemoteError covers every other non-success outcome, including transport
// timeouts.
type RemoteError struct {
	StatusCode int
	Timeout    bool
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Timeout {
		return "remote error: request timed out"
	}
	if e.Message != "" {
		return fmt.Sprintf("remote error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote error: status %d", e.StatusCode)
}

// remoteMessage pulls the human-readable message out of a HubSpot error
// body, falling back to the raw body.
func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return string(body)
}

// classifyResponse maps a non-2xx response to the typed error taxonomy.
//
// Mapping: 400/409/422 are validation failures, 404 is not-found, 429 is
// rate limiting, everything else (401 and 403 included) is a RemoteError
// carrying the status.
func classifyResponse(resp *httpclient.Response, objectType ObjectType, objectID string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case 400, 409, 422:
		return &ValidationError{Message: remoteMessage(resp.Body)}
	case 404:
		return &NotFoundError{ObjectType: objectType, ObjectID: objectID}
	case 429:
		return &RateLimitError{RetryAfter: retryAfter(resp)}
	default:
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    remoteMessage(resp.Body),
		}
	}
}

// classifyTransport maps a failed exchange to the taxonomy: timeouts and
// cancellations become RemoteError with Timeout set, a server error that
// survived the transport's retries keeps its final status, and anything
// else is wrapped as a plain RemoteError.
func classifyTransport(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &RemoteError{Timeout: true}
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &RemoteError{
			StatusCode: statusErr.StatusCode,
			Message:    remoteMessage(statusErr.Body),
		}
	}

	return &RemoteError{Message: err.Error()}
}

func retryAfter(resp *httpclient.Response) time.Duration {
	header := resp.Headers.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
