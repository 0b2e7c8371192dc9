// Package services holds clients for external collaborators. The only one
// today is the text-generation service backing tool smart search.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"project/backend/models"

	"github.com/google/uuid"
)

// ToolMatch is one ranked hit from the text-generation service.
type ToolMatch struct {
	ToolID uint   `json:"toolId"`
	Reason string `json:"reason"`
}

// ToolSearchClient queries the external text-generation service with a free
// text query plus a catalog projection. The service is unreliable: any
// transport or parse failure degrades to an empty result, never an error.
type ToolSearchClient struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
	Logger     *log.Logger
}

func NewToolSearchClient(endpoint, apiKey string, logger *log.Logger) *ToolSearchClient {
	return &ToolSearchClient{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	}
}

type catalogEntry struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	UsageStatus string `json:"usage_status"`
}

type searchRequest struct {
	RequestID string         `json:"request_id"`
	Query     string         `json:"query"`
	Tools     []catalogEntry `json:"tools"`
}

type searchResponse struct {
	Matches []ToolMatch `json:"matches"`
}

// Search returns ranked matches for the query against the given catalog.
func (c *ToolSearchClient) Search(ctx context.Context, query string, catalog []models.Tool) []ToolMatch {
	if c.Endpoint == "" {
		return nil
	}

	req := searchRequest{
		RequestID: uuid.NewString(),
		Query:     query,
		Tools:     make([]catalogEntry, 0, len(catalog)),
	}
	known := make(map[uint]bool, len(catalog))
	for _, t := range catalog {
		known[t.ID] = true
		req.Tools = append(req.Tools, catalogEntry{
			ID:          t.ID,
			Name:        t.Name,
			URL:         t.URL,
			UsageStatus: t.UsageStatus,
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		c.warn("tool search: encode request: %v", err)
		return nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		c.warn("tool search: build request: %v", err)
		return nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		c.warn("tool search: request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warn("tool search: unexpected status %d", resp.StatusCode)
		return nil
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.warn("tool search: parse response: %v", err)
		return nil
	}

	// The model sometimes invents ids; keep only catalog entries.
	matches := make([]ToolMatch, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		if known[m.ToolID] {
			matches = append(matches, m)
		}
	}
	return matches
}

func (c *ToolSearchClient) warn(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
