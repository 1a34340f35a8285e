package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultSnapshotBaseURL is the public, credential-free endpoint serving full
// page snapshots for publicly shared pages.
const DefaultSnapshotBaseURL = "https://www.notion.so"

// PageSnapshot is the raw renderable record map of a public page. Block
// payloads are kept opaque; the rendering layer consumes them as-is.
type PageSnapshot struct {
	RecordMap RecordMap `json:"recordMap"`
}

// RecordMap holds the snapshot's records keyed by record id.
type RecordMap struct {
	Blocks map[string]json.RawMessage `json:"block"`
}

// SnapshotClient fetches full page snapshots without a service credential.
// Only publicly shared pages resolve through this path.
type SnapshotClient struct {
	client  *http.Client
	baseURL string
}

// NewSnapshotClient creates a snapshot client. A nil http.Client falls back
// to http.DefaultClient.
func NewSnapshotClient(client *http.Client, baseURL string) *SnapshotClient {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultSnapshotBaseURL
	}
	return &SnapshotClient{client: client, baseURL: baseURL}
}

type snapshotRequest struct {
	PageID          string `json:"pageId"`
	Limit           int    `json:"limit"`
	ChunkNumber     int    `json:"chunkNumber"`
	VerticalColumns bool   `json:"verticalColumns"`
	Cursor          struct {
		Stack [][]any `json:"stack"`
	} `json:"cursor"`
}

// GetPageSnapshot fetches the full renderable snapshot for a public page id.
// The id may be in dashed or dashless form.
func (c *SnapshotClient) GetPageSnapshot(ctx context.Context, pageID string) (*PageSnapshot, error) {
	id, err := NormalizeID(pageID)
	if err != nil {
		return nil, err
	}
	reqBody := snapshotRequest{
		PageID: id,
		Limit:  100,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v3/loadPageChunk", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating snapshot request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot for page %s: %w", pageID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: "snapshot fetch failed"}
	}

	var snap PageSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot for page %s: %w", pageID, err)
	}
	return &snap, nil
}
