package chroma_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Strob0t/NeuroFlow/internal/adapter/chroma"
	"github.com/Strob0t/NeuroFlow/internal/port/vectorstore"
)

func newFakeServer(t *testing.T, collectionCalls *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		if collectionCalls != nil {
			collectionCalls.Add(1)
		}
		var req struct {
			Name        string `json:"name"`
			GetOrCreate bool   `json:"get_or_create"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode collection request: %v", err)
		}
		if !req.GetOrCreate {
			t.Fatal("expected get_or_create to be set")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "coll-1", "name": req.Name})
	})
	mux.HandleFunc("/api/v1/collections/coll-1/upsert", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs       []string            `json:"ids"`
			Documents []string            `json:"documents"`
			Metadatas []map[string]string `json:"metadatas"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode upsert request: %v", err)
		}
		if len(req.IDs) != 1 || req.IDs[0] != "task-1" {
			t.Fatalf("unexpected ids: %v", req.IDs)
		}
		if req.Metadatas[0]["task_type"] != "creative" {
			t.Fatalf("unexpected metadata: %v", req.Metadatas)
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/collections/coll-1/query", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ids":       [][]string{{"a", "b"}},
			"documents": [][]string{{"write blog post", "draft essay"}},
			"metadatas": [][]map[string]string{{{"task_type": "creative"}, {"task_type": "creative"}}},
			"distances": [][]float64{{0.1, 0.4}},
		})
	})
	return httptest.NewServer(mux)
}

func TestUpsertAndFindSimilar(t *testing.T) {
	var collectionCalls atomic.Int64
	srv := newFakeServer(t, &collectionCalls)
	defer srv.Close()

	client := chroma.NewClient(srv.URL)
	ctx := context.Background()

	err := client.Upsert(ctx, vectorstore.CollectionTasks, vectorstore.Document{
		ID:       "task-1",
		Text:     "write the report",
		Metadata: map[string]string{"task_type": "creative"},
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	matches, err := client.FindSimilar(ctx, vectorstore.CollectionTasks, "write something", 2)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "a" || matches[0].Text != "write blog post" {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
	if matches[1].Distance != 0.4 {
		t.Fatalf("expected distance 0.4, got %v", matches[1].Distance)
	}

	if got := collectionCalls.Load(); got != 1 {
		t.Fatalf("expected collection resolved once, got %d calls", got)
	}
}

func TestFindSimilarEmptyResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "coll-1"})
	})
	mux.HandleFunc("/api/v1/collections/coll-1/query", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ids": [][]string{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := chroma.NewClient(srv.URL)
	matches, err := client.FindSimilar(context.Background(), "c", "anything", 3)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestUpsertServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := chroma.NewClient(srv.URL)
	err := client.Upsert(context.Background(), "c", vectorstore.Document{ID: "x", Text: "y"})
	if err == nil {
		t.Fatal("expected error on server failure")
	}
}
