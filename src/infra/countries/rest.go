// Package countries adapts the REST Countries service to ports.CountryProvider.
package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"regform/src/core/domain"
	"regform/src/core/ports"
	"regform/src/infra/config"
)

// allPath asks only for the fields the directory needs.
const allPath = "/v3.1/all?fields=name,flags"

var _ ports.CountryProvider = (*RestClient)(nil)

// RestClient reads the country list from restcountries.com (or a compatible
// service). It performs one request per call; retries are up to the caller.
type RestClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	log     *slog.Logger
}

// NewRestClient builds a client from config. A nil httpClient means
// http.DefaultClient.
func NewRestClient(cfg config.CountriesConfig, httpClient *http.Client, log *slog.Logger) *RestClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RestClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		client:  httpClient,
		log:     log,
	}
}

// country is the subset of the provider payload we read.
type country struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Flags struct {
		SVG string `json:"svg"`
		PNG string `json:"png"`
	} `json:"flags"`
}

// FetchCountries implements ports.CountryProvider.
func (c *RestClient) FetchCountries(ctx context.Context) ([]domain.CountryRecord, error) {
	if c.baseURL == "" {
		return nil, errors.New("countries: base url is required")
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+allPath, nil)
	if err != nil {
		return nil, fmt.Errorf("countries: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("countries: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("countries: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("countries: read body: %w", err)
	}

	var payload []country
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("countries: decode payload: %w", err)
	}

	return toRecords(payload, c.log), nil
}

func toRecords(payload []country, log *slog.Logger) []domain.CountryRecord {
	records := make([]domain.CountryRecord, 0, len(payload))
	skipped := 0
	for _, p := range payload {
		if p.Name.Common == "" {
			skipped++
			continue
		}
		flag := p.Flags.SVG
		if flag == "" {
			flag = p.Flags.PNG
		}
		records = append(records, domain.CountryRecord{
			Name:          p.Name.Common,
			FlagReference: flag,
		})
	}
	if skipped > 0 && log != nil {
		log.Debug("countries without a name skipped", "count", skipped)
	}
	return records
}
