package countries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regform/src/core/domain"
	"regform/src/infra/config"
	"regform/src/infra/logger"
)

const samplePayload = `[
  {"name": {"common": "Poland", "official": "Republic of Poland"},
   "flags": {"png": "https://flagcdn.com/w320/pl.png", "svg": "https://flagcdn.com/pl.svg"}},
  {"name": {"common": "Japan"}, "flags": {"png": "https://flagcdn.com/w320/jp.png"}},
  {"name": {"official": "Nameless"}, "flags": {"svg": "https://example.com/x.svg"}}
]`

func newTestClient(t *testing.T, h http.HandlerFunc, timeout time.Duration) *RestClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRestClient(config.CountriesConfig{BaseURL: srv.URL + "/", Timeout: timeout}, srv.Client(), logger.Discard())
}

func TestFetchCountries(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}, 0)

	records, err := c.FetchCountries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/v3.1/all", gotPath)
	assert.Equal(t, "fields=name,flags", gotQuery)

	want := []domain.CountryRecord{
		{Name: "Poland", FlagReference: "https://flagcdn.com/pl.svg"},
		{Name: "Japan", FlagReference: "https://flagcdn.com/w320/jp.png"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchCountries_Failures(t *testing.T) {
	t.Run("non 2xx status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}, 0)
		_, err := c.FetchCountries(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("malformed payload", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": 404}`))
		}, 0)
		_, err := c.FetchCountries(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode payload")
	})

	t.Run("timeout", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}, 20*time.Millisecond)
		_, err := c.FetchCountries(context.Background())
		require.Error(t, err)
	})

	t.Run("missing base url", func(t *testing.T) {
		c := NewRestClient(config.CountriesConfig{}, nil, logger.Discard())
		_, err := c.FetchCountries(context.Background())
		require.Error(t, err)
	})
}
