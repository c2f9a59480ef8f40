// Package store persists indexed chunks and answers similarity queries. The
// Gateway interface is the boundary the rest of the system depends on; the
// SQLite + sqlite-vec implementation is the production backend and the memory
// implementation backs tests.
package store

import (
	"context"
	"fmt"

	"cortex/internal/chunker"
)

// Hit is one query result: chunk content, its metadata, and a relevance score
// where higher is better. Results come back best-first.
type Hit struct {
	Content string
	Meta    chunker.Metadata
	Score   float64
}

// Gateway is the similarity-search abstraction the indexer writes to and the
// retriever reads from.
type Gateway interface {
	// Upsert stores documents under content-addressed IDs. It is idempotent:
	// re-upserting an identical (id, text, metadata) triple leaves the same
	// final state, with no duplicate rows.
	Upsert(ctx context.Context, ids []string, texts []string, metas []chunker.Metadata) error
	// Query returns at most topK hits for the text, best-first.
	Query(ctx context.Context, text string, topK int) ([]Hit, error)
	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)
}

// GatewayError wraps failures talking to the index backend (connection,
// timeout, internal errors). Callers check for it with errors.As and can
// choose to serve without retrieved context instead of failing outright.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("index gateway %s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

func gatewayErr(op string, err error) error {
	return &GatewayError{Op: op, Err: err}
}

func errMismatched(ids, texts, metas int) error {
	return fmt.Errorf("mismatched lengths: %d ids, %d texts, %d metadatas", ids, texts, metas)
}
