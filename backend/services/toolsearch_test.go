package services

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testCatalog() []models.Tool {
	return []models.Tool{
		{Model: gorm.Model{ID: 1}, Name: "Cursor", URL: "https://cursor.sh", UsageStatus: models.ToolCommunityApproved},
		{Model: gorm.Model{ID: 2}, Name: "asciinema", URL: "https://asciinema.org", UsageStatus: models.ToolCourseOfficial},
	}
}

func newTestClient(serverURL string) *ToolSearchClient {
	return NewToolSearchClient(serverURL, "test-key", log.New(io.Discard, "", 0))
}

func TestSearchReturnsRankedMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"matches":[{"toolId":2,"reason":"records terminal sessions"}]}`))
	}))
	defer server.Close()

	matches := newTestClient(server.URL).Search(context.Background(), "record my terminal", testCatalog())
	require.Len(t, matches, 1)
	assert.Equal(t, uint(2), matches[0].ToolID)
	assert.Equal(t, "records terminal sessions", matches[0].Reason)
}

func TestSearchDropsUnknownIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[{"toolId":99,"reason":"made up"},{"toolId":1,"reason":"real"}]}`))
	}))
	defer server.Close()

	matches := newTestClient(server.URL).Search(context.Background(), "anything", testCatalog())
	require.Len(t, matches, 1)
	assert.Equal(t, uint(1), matches[0].ToolID)
}

func TestSearchDegradesOnMalformedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`Sure! Here are some tools you might like:`))
	}))
	defer server.Close()

	matches := newTestClient(server.URL).Search(context.Background(), "anything", testCatalog())
	assert.Empty(t, matches)
}

func TestSearchDegradesOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	matches := newTestClient(server.URL).Search(context.Background(), "anything", testCatalog())
	assert.Empty(t, matches)
}

func TestSearchDisabledWithoutEndpoint(t *testing.T) {
	client := NewToolSearchClient("", "", log.New(io.Discard, "", 0))
	assert.Nil(t, client.Search(context.Background(), "anything", testCatalog()))
}
