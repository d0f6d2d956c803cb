// ABOUTME: Tests for the ipinfo.io geolocation client
// ABOUTME: Uses httptest servers to cover success, missing fields, and non-2xx responses

package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const austinPayload = `{"city":"Austin","region":"Texas","country":"US","timezone":"America/Chicago"}`

func serve(t *testing.T, status int, body string) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client()), &hits
}

func TestFetchLocation_Success(t *testing.T) {
	client, hits := serve(t, http.StatusOK, austinPayload)
	observedAt := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	rec, err := client.FetchLocation(context.Background(), "tok", observedAt)
	require.NoError(t, err)

	assert.Equal(t, "Austin", rec.City)
	assert.Equal(t, "Texas", rec.Region)
	assert.Equal(t, "US", rec.Country)
	assert.Equal(t, "America/Chicago", rec.Timezone)
	assert.True(t, rec.ObservedAt.Equal(observedAt))
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchLocation_ObservedAtIsCallerCapturedUTC(t *testing.T) {
	client, _ := serve(t, http.StatusOK, austinPayload)
	chicago := time.FixedZone("CST", -6*60*60)
	observedAt := time.Date(2025, 3, 1, 6, 30, 0, 0, chicago)

	before := time.Now()
	rec, err := client.FetchLocation(context.Background(), "tok", observedAt)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, rec.ObservedAt.Location())
	assert.True(t, rec.ObservedAt.Equal(observedAt), "timestamp must be the captured one, not parse time")
	assert.True(t, rec.ObservedAt.Before(before))

	_, err = time.Parse(time.RFC3339, rec.ObservedAt.Format(time.RFC3339))
	assert.NoError(t, err)
}

func TestFetchLocation_ExtraFieldsIgnored(t *testing.T) {
	body := `{"ip":"203.0.113.7","city":"Austin","region":"Texas","country":"US","loc":"30.2672,-97.7431","org":"AS7922","postal":"78701","timezone":"America/Chicago"}`
	client, _ := serve(t, http.StatusOK, body)

	rec, err := client.FetchLocation(context.Background(), "tok", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Austin", rec.City)
	assert.Equal(t, "America/Chicago", rec.Timezone)
}

func TestFetchLocation_FieldsVerbatim(t *testing.T) {
	body := `{"city":"São Paulo","region":"  São Paulo ","country":"BR","timezone":"America/Sao_Paulo"}`
	client, _ := serve(t, http.StatusOK, body)

	rec, err := client.FetchLocation(context.Background(), "tok", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", rec.City)
	assert.Equal(t, "  São Paulo ", rec.Region)
}

func TestFetchLocation_MissingField(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing_city", `{"region":"Texas","country":"US","timezone":"America/Chicago"}`, "city"},
		{"missing_region", `{"city":"Austin","country":"US","timezone":"America/Chicago"}`, "region"},
		{"missing_country", `{"city":"Austin","region":"Texas","timezone":"America/Chicago"}`, "country"},
		{"missing_timezone", `{"city":"Austin","region":"Texas","country":"US"}`, "timezone"},
		{"empty_object", `{}`, "city"},
		{"city_not_string", `{"city":42,"region":"Texas","country":"US","timezone":"America/Chicago"}`, "city"},
		{"region_null", `{"city":"Austin","region":null,"country":"US","timezone":"America/Chicago"}`, "region"},
		{"country_object", `{"city":"Austin","region":"Texas","country":{"code":"US"},"timezone":"America/Chicago"}`, "country"},
		{"timezone_empty", `{"city":"Austin","region":"Texas","country":"US","timezone":""}`, "timezone"},
		{"first_missing_wins", `{"country":"US"}`, "city"},
		{"bogon_response", `{"ip":"127.0.0.1","bogon":true}`, "city"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := serve(t, http.StatusOK, tt.body)

			rec, err := client.FetchLocation(context.Background(), "tok", time.Now())
			require.Error(t, err)
			assert.Nil(t, rec)

			var missing *MissingFieldError
			require.True(t, errors.As(err, &missing), "expected MissingFieldError, got %T: %v", err, err)
			assert.Equal(t, tt.field, missing.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestFetchLocation_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		status int
		body   string
	}{
		{http.StatusTooManyRequests, `{"error":{"title":"Rate limit exceeded"}}`},
		{http.StatusForbidden, `{"status":403,"error":{"title":"Wrong token"}}`},
		{http.StatusInternalServerError, "upstream exploded"},
		{http.StatusMovedPermanently, ""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := serve(t, tt.status, tt.body)

			_, err := client.FetchLocation(context.Background(), "tok", time.Now())
			require.Error(t, err)

			var apiErr *RemoteAPIError
			require.True(t, errors.As(err, &apiErr), "expected RemoteAPIError, got %T: %v", err, err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.body, apiErr.Body)
			assert.Contains(t, err.Error(), "status")
		})
	}
}

func TestFetchLocation_MalformedJSON(t *testing.T) {
	client, _ := serve(t, http.StatusOK, `{"city":`)

	_, err := client.FetchLocation(context.Background(), "tok", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")

	var missing *MissingFieldError
	assert.False(t, errors.As(err, &missing))
}

func TestFetchLocation_SendsTokenAsQueryParam(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		_, _ = w.Write([]byte(austinPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", srv.Client())
	_, err := client.FetchLocation(context.Background(), "s3cr3t&x=1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "/json", gotPath)
	assert.Equal(t, "s3cr3t&x=1", gotToken)
}

func TestFetchLocation_TransportErrorRedactsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, nil)
	_, err := client.FetchLocation(context.Background(), "s3cr3t", time.Now())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "s3cr3t")
	assert.True(t, strings.Contains(err.Error(), "request geolocation"))
}

func TestFetchLocation_CanceledContext(t *testing.T) {
	client, hits := serve(t, http.StatusOK, austinPayload)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchLocation(ctx, "tok", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.NotNil(t, c.httpClient)
	assert.Equal(t, "https://ipinfo.io/json?token=abc", c.endpoint("abc"))
}

func TestRemoteAPIError_Message(t *testing.T) {
	err := &RemoteAPIError{StatusCode: 429, Body: "slow down"}
	assert.Equal(t, "API request failed with status 429 Too Many Requests: slow down", err.Error())
}
