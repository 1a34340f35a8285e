package notion_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) notion.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return notion.NewClient("secret-token",
		notion.WithHTTPClient(server.Client()),
		notion.WithBaseURL(server.URL),
	)
}

func TestQueryDatabaseSendsAuthAndVersion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, notion.DefaultVersion, r.Header.Get("Notion-Version"))
		assert.Equal(t, "/v1/databases/db-1/query", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}, "has_more": false})
	})

	_, err := client.QueryDatabase(context.Background(), "db-1", nil)
	require.NoError(t, err)
}

func TestQueryDatabaseFollowsPagination(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req struct {
			StartCursor string `json:"start_cursor"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch calls {
		case 1:
			assert.Empty(t, req.StartCursor)
			json.NewEncoder(w).Encode(map[string]any{
				"results":     []map[string]any{{"id": "page-1"}},
				"has_more":    true,
				"next_cursor": "cursor-2",
			})
		case 2:
			assert.Equal(t, "cursor-2", req.StartCursor)
			json.NewEncoder(w).Encode(map[string]any{
				"results":  []map[string]any{{"id": "page-2"}},
				"has_more": false,
			})
		default:
			t.Fatalf("unexpected call %d", calls)
		}
	})

	pages, err := client.QueryDatabase(context.Background(), "db-1", nil)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, "page-1", pages[0].ID)
	assert.Equal(t, "page-2", pages[1].ID)
	assert.Equal(t, 2, calls)
}

func TestQueryDatabaseSendsFilterAndSorts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Filter map[string]any `json:"filter"`
			Sorts  []map[string]any `json:"sorts"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Status", req.Filter["property"])
		require.Len(t, req.Sorts, 1)
		assert.Equal(t, "descending", req.Sorts[0]["direction"])
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}, "has_more": false})
	})

	_, err := client.QueryDatabase(context.Background(), "db-1", &notion.DatabaseQuery{
		Filter: notion.FilterStatusEquals("Status", "Published"),
		Sorts:  []notion.Sort{{Property: "Date", Direction: "descending"}},
	})
	require.NoError(t, err)
}

func TestQueryDatabaseAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"code":    "unauthorized",
			"message": "API token is invalid.",
		})
	})

	_, err := client.QueryDatabase(context.Background(), "db-1", nil)
	require.Error(t, err)

	var apiErr *notion.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "unauthorized", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "API token is invalid")
}

func TestGetBlockChildrenFollowsPagination(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/blocks/block-1/children", r.URL.Path)
		if r.URL.Query().Get("start_cursor") == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"results":     []map[string]any{{"id": "b1", "type": "paragraph"}},
				"has_more":    true,
				"next_cursor": "c2",
			})
			return
		}
		assert.Equal(t, "c2", r.URL.Query().Get("start_cursor"))
		json.NewEncoder(w).Encode(map[string]any{
			"results":  []map[string]any{{"id": "b2", "type": "heading_1"}},
			"has_more": false,
		})
	})

	blocks, err := client.GetBlockChildren(context.Background(), "block-1")
	require.NoError(t, err)

	require.Len(t, blocks, 2)
	assert.Equal(t, "b1", blocks[0].ID)
	assert.Equal(t, "b2", blocks[1].ID)
	assert.Equal(t, 2, calls)
}

func TestGetPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pages/page-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "page-1",
			"properties": map[string]any{
				"Title": map[string]any{
					"type":  "title",
					"title": []map[string]any{{"plain_text": "Hello"}},
				},
			},
		})
	})

	page, err := client.GetPage(context.Background(), "page-1")
	require.NoError(t, err)

	assert.Equal(t, "page-1", page.ID)
	assert.Equal(t, "Hello", notion.PlainText(page.Properties["Title"].Title))
}

func TestSnapshotClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/loadPageChunk", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "snapshot path must be credential-free")

		var req struct {
			PageID string `json:"pageId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "0f0e0d0c-0b0a-0908-0706-050403020100", req.PageID)

		json.NewEncoder(w).Encode(map[string]any{
			"recordMap": map[string]any{
				"block": map[string]any{
					"b1": map[string]any{"value": map[string]any{"type": "text"}},
				},
			},
		})
	}))
	t.Cleanup(server.Close)

	client := notion.NewSnapshotClient(server.Client(), server.URL)
	// Dashless form, as carried by public page URLs.
	snap, err := client.GetPageSnapshot(context.Background(), "0f0e0d0c0b0a09080706050403020100")
	require.NoError(t, err)

	assert.Contains(t, snap.RecordMap.Blocks, "b1")
}

func TestNormalizeID(t *testing.T) {
	id, err := notion.NormalizeID("0f0e0d0c0b0a09080706050403020100")
	require.NoError(t, err)
	assert.Equal(t, "0f0e0d0c-0b0a-0908-0706-050403020100", id)

	id, err = notion.NormalizeID("0f0e0d0c-0b0a-0908-0706-050403020100")
	require.NoError(t, err)
	assert.Equal(t, "0f0e0d0c-0b0a-0908-0706-050403020100", id)

	_, err = notion.NormalizeID("not-a-page-id")
	assert.Error(t, err)
}
