// Package vectorstore defines the port for semantic similarity search over
// past tasks and interventions.
package vectorstore

import "context"

// Document is one stored text with its metadata.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Match is one similarity hit, smaller distance is closer.
type Match struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64
}

// Store indexes documents and retrieves nearest neighbors.
type Store interface {
	Upsert(ctx context.Context, collection string, doc Document) error
	FindSimilar(ctx context.Context, collection, query string, k int) ([]Match, error)
}

// Well-known collections.
const (
	CollectionTasks         = "neuroflow_tasks"
	CollectionInterventions = "neuroflow_interventions"
)
