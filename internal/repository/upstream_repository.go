package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"support-monitor/internal/model"
)

// NetworkError reports a failed request: either a non-2xx response, or a
// transport failure when StatusCode is zero.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not a JSON array of records.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type UpstreamRepository struct {
	endpoint string
	client   *http.Client
}

func NewUpstreamRepository(endpoint string, client *http.Client) *UpstreamRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &UpstreamRepository{
		endpoint: strings.TrimSpace(endpoint),
		client:   client,
	}
}

func (r *UpstreamRepository) Endpoint() string {
	return r.endpoint
}

// FetchEvents issues exactly one GET to the support monitor feed. There is no
// retry; any failure is terminal for the caller's load cycle.
func (r *UpstreamRepository) FetchEvents(ctx context.Context) ([]model.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &NetworkError{StatusCode: resp.StatusCode}
	}

	// the status was fine, so a broken body is reported as a transport failure
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	var events []model.RawEvent
	if err := json.Unmarshal(body, &events); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			err = fmt.Errorf("expected a JSON array, got %s", typeErr.Value)
		}
		return nil, &ParseError{Err: err}
	}
	if events == nil {
		// a literal null body decodes without error
		return nil, &ParseError{Err: errors.New("expected a JSON array, got null")}
	}

	return events, nil
}

// StatusCode extracts the upstream HTTP status from a fetch error, zero if none.
func StatusCode(err error) int {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode
	}
	return 0
}
