// ABOUTME: ipinfo.io geolocation client
// ABOUTME: Fetches the caller's location by IP and decodes it into a LocationRecord

package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harper/adot/internal/models"
)

// DefaultBaseURL is the ipinfo.io API root.
const DefaultBaseURL = "https://ipinfo.io"

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// RemoteAPIError is returned when the geolocation service answers with a non-2xx status.
type RemoteAPIError struct {
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("API request failed with status %d %s: %s",
		e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// MissingFieldError is returned when a required field is absent, empty, or not a string.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s field in geolocation response", e.Field)
}

// Client issues geolocation lookups.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. Empty baseURL uses ipinfo.io and a
// nil httpClient uses the default transport without an extra timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchLocation looks up the caller's location. observedAt is stamped on the
// record as-is (converted to UTC); callers capture it before the request.
// A single attempt is made.
func (c *Client) FetchLocation(ctx context.Context, token string, observedAt time.Time) (*models.LocationRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "adot")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request geolocation: %w", redactToken(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return nil, fmt.Errorf("read error response (status %d): %w", resp.StatusCode, readErr)
		}
		return nil, &RemoteAPIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geolocation response: %w", err)
	}

	return payload.record(observedAt)
}

func (c *Client) endpoint(token string) string {
	q := url.Values{}
	q.Set("token", token)
	return c.baseURL + "/json?" + q.Encode()
}

// response is the subset of the ipinfo payload adot keeps.
type response struct {
	City     field `json:"city"`
	Region   field `json:"region"`
	Country  field `json:"country"`
	Timezone field `json:"timezone"`
}

// record builds the location and reports the first required field missing.
func (r *response) record(observedAt time.Time) (*models.LocationRecord, error) {
	rec := &models.LocationRecord{
		City:       string(r.City),
		Region:     string(r.Region),
		Country:    string(r.Country),
		Timezone:   string(r.Timezone),
		ObservedAt: observedAt.UTC(),
	}
	if name := rec.MissingField(); name != "" {
		return nil, &MissingFieldError{Field: name}
	}
	return rec, nil
}

// field is a JSON value kept only when it decodes as a string.
// Numbers, objects, and null leave it empty rather than failing the decode.
type field string

func (f *field) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	*f = field(s)
	return nil
}

// redactToken strips the query string, which carries the API token, from URL errors.
func redactToken(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, parseErr := url.Parse(ue.URL); parseErr == nil {
			u.RawQuery = ""
			ue.URL = u.String()
		}
	}
	return err
}
