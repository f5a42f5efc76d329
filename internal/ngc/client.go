// Package ngc provides a client for the NGC catalog search and endpoint spec APIs.
package ngc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cenkalti/backoff/v5"

	"github.com/nimscan/blueprint-discovery/internal/httpclient"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

const (
	// DefaultBaseURL is the production NGC API base URL
	DefaultBaseURL = "https://api.ngc.nvidia.com"

	searchPath = "/v2/search/catalog/resources/ENDPOINT"
	specPath   = "/v2/endpoints"

	// searchMaxTries bounds retries of a single catalog page request
	searchMaxTries = 3
)

// Client defines the interface for talking to the NGC catalog
type Client interface {
	// SearchPage fetches one page of catalog search results
	SearchPage(ctx context.Context, query SearchQuery, page int) (*SearchResultPage, error)

	// FetchSpec retrieves the raw spec document for a single catalog entry
	FetchSpec(ctx context.Context, resourceID string) ([]byte, error)
}

// CatalogClient is the HTTP-backed Client implementation
type CatalogClient struct {
	httpClient httpclient.Client
	baseURL    string
	logger     *slog.Logger
}

// NewCatalogClient creates a catalog client. An empty baseURL selects the
// production NGC API.
func NewCatalogClient(httpClient httpclient.Client, baseURL string) *CatalogClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &CatalogClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     slog.Default(),
	}
}

// searchPayload is the JSON document the search endpoint expects in its
// "q" query parameter
type searchPayload struct {
	Filters    []searchField `json:"filters"`
	OrderBy    []searchField `json:"orderBy"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Query      string        `json:"query"`
	ScoredSize int           `json:"scoredSize"`
}

type searchField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SearchPage fetches one page of catalog search results, filtered by the
// query's org and label and ordered by descending creation date. Transient
// failures are retried with exponential backoff; HTTP 4xx responses are not.
func (c *CatalogClient) SearchPage(ctx context.Context, query SearchQuery, page int) (*SearchResultPage, error) {
	searchURL, err := c.buildSearchURL(query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to build search URL: %w", err)
	}

	operation := func() ([]byte, error) {
		data, err := c.httpClient.Get(ctx, searchURL)
		if err != nil {
			var httpErr *httpclient.HTTPError
			if errors.As(err, &httpErr) && httpErr.StatusCode < http.StatusInternalServerError {
				return nil, backoff.Permanent(err)
			}
			c.logger.Warn("Catalog page fetch failed, retrying",
				"page", page,
				"error", err)
			return nil, err
		}
		return data, nil
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(searchMaxTries))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog page %d: %w", page, err)
	}

	var result SearchResultPage
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse catalog page %d: %w", page, err)
	}

	return &result, nil
}

// FetchSpec retrieves the raw spec document for a single catalog entry.
// Not retried: a failed fetch is terminal for that resource.
func (c *CatalogClient) FetchSpec(ctx context.Context, resourceID string) ([]byte, error) {
	specURL := fmt.Sprintf("%s%s/%s/spec", c.baseURL, specPath, resourceID)

	data, err := c.httpClient.Get(ctx, specURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spec for %s: %w", resourceID, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("spec for %s is not valid JSON", resourceID)
	}

	return data, nil
}

// buildSearchURL constructs the search URL with the JSON query payload
// encoded into the "q" parameter
func (c *CatalogClient) buildSearchURL(query SearchQuery, page int) (string, error) {
	payload := searchPayload{
		Filters: []searchField{
			{Field: "label", Value: query.Label},
		},
		OrderBy: []searchField{
			{Field: "dateCreated", Value: "DESC"},
		},
		Page:       page,
		PageSize:   query.PageSize,
		Query:      fmt.Sprintf("orgName:%q", query.OrgName),
		ScoredSize: query.PageSize,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode search payload: %w", err)
	}

	params := url.Values{}
	params.Set("q", string(encoded))

	return c.baseURL + searchPath + "?" + params.Encode(), nil
}
