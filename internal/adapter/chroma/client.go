// Package chroma implements the vectorstore port against a ChromaDB server.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Strob0t/NeuroFlow/internal/port/vectorstore"
	"github.com/Strob0t/NeuroFlow/internal/resilience"
)

// Client talks to the ChromaDB REST API. Collection IDs are resolved once
// and cached for the lifetime of the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.Breaker

	mu          sync.Mutex
	collections map[string]string
}

// NewClient creates a ChromaDB client for the given server URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		collections: make(map[string]string),
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

type collectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type upsertRequest struct {
	IDs       []string            `json:"ids"`
	Documents []string            `json:"documents"`
	Metadatas []map[string]string `json:"metadatas"`
}

type queryRequest struct {
	QueryTexts []string `json:"query_texts"`
	NResults   int      `json:"n_results"`
}

type queryResponse struct {
	IDs       [][]string            `json:"ids"`
	Documents [][]string            `json:"documents"`
	Metadatas [][]map[string]string `json:"metadatas"`
	Distances [][]float64           `json:"distances"`
}

// Upsert implements vectorstore.Store.
func (c *Client) Upsert(ctx context.Context, collection string, doc vectorstore.Document) error {
	collID, err := c.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	body, err := json.Marshal(upsertRequest{
		IDs:       []string{doc.ID},
		Documents: []string{doc.Text},
		Metadatas: []map[string]string{metadata},
	})
	if err != nil {
		return fmt.Errorf("marshal upsert: %w", err)
	}

	path := fmt.Sprintf("/api/v1/collections/%s/upsert", collID)
	if _, err := c.doRequest(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("upsert %s: %w", collection, err)
	}
	return nil
}

// FindSimilar implements vectorstore.Store.
func (c *Client) FindSimilar(ctx context.Context, collection, query string, k int) ([]vectorstore.Match, error) {
	collID, err := c.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(queryRequest{
		QueryTexts: []string{query},
		NResults:   k,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	path := fmt.Sprintf("/api/v1/collections/%s/query", collID)
	data, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	var parsed queryResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal query response: %w", err)
	}
	if len(parsed.IDs) == 0 {
		return nil, nil
	}

	matches := make([]vectorstore.Match, 0, len(parsed.IDs[0]))
	for i, id := range parsed.IDs[0] {
		m := vectorstore.Match{ID: id}
		if len(parsed.Documents) > 0 && i < len(parsed.Documents[0]) {
			m.Text = parsed.Documents[0][i]
		}
		if len(parsed.Metadatas) > 0 && i < len(parsed.Metadatas[0]) {
			m.Metadata = parsed.Metadatas[0][i]
		}
		if len(parsed.Distances) > 0 && i < len(parsed.Distances[0]) {
			m.Distance = parsed.Distances[0][i]
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// collectionID resolves a collection name to its server-side ID, creating
// the collection on first use.
func (c *Client) collectionID(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	id, ok := c.collections[name]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	body, err := json.Marshal(collectionRequest{Name: name, GetOrCreate: true})
	if err != nil {
		return "", fmt.Errorf("marshal collection request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/api/v1/collections", body)
	if err != nil {
		return "", fmt.Errorf("get or create collection %s: %w", name, err)
	}

	var parsed collectionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal collection response: %w", err)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("collection %s: server returned no id", name)
	}

	c.mu.Lock()
	c.collections[name] = parsed.ID
	c.mu.Unlock()
	return parsed.ID, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var result []byte
	call := func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 400 {
			return fmt.Errorf("chroma API error %d: %s", resp.StatusCode, string(data))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}
