// Package index drives the ingestion pipeline: walk a codebase, chunk every
// file, and upsert the assembled corpus into the index gateway under
// content-addressed identifiers.
package index

import (
	"context"
	"fmt"

	"cortex/internal/chunker"
	"cortex/internal/chunker/languages"
	"cortex/internal/store"
)

// Config holds the indexer configuration.
type Config struct {
	Workers int
	// BatchSize overrides the upsert batch size; zero means the default.
	BatchSize int
}

// Indexer ingests a codebase into an index gateway.
type Indexer struct {
	gateway  store.Gateway
	hashes   FileHashes
	chunker  *chunker.ASTChunker
	registry *chunker.Registry
	config   Config
}

// New creates an Indexer writing to the given gateway. hashes may be nil,
// in which case every file is re-indexed each run (the content-addressed IDs
// still make that idempotent, just slower).
func New(gw store.Gateway, hashes FileHashes, cfg Config) *Indexer {
	reg := languages.Default()
	return &Indexer{
		gateway:  gw,
		hashes:   hashes,
		chunker:  chunker.NewASTChunker(reg),
		registry: reg,
		config:   cfg,
	}
}

// Index ingests the codebase at the given root path and returns run stats.
func (idx *Indexer) Index(ctx context.Context, root string) (*Stats, error) {
	// Walk everything chunkable: grammar-backed extensions plus the
	// simple-load set the fallback loader handles.
	allowed := idx.registry.Extensions()
	for ext := range chunker.SimpleExtensions {
		allowed[ext] = true
	}

	stats, err := runPipeline(ctx, root, idx.gateway, idx.hashes, idx.chunker, allowed,
		idx.config.Workers, idx.config.BatchSize)
	if err != nil {
		return stats, fmt.Errorf("index %s: %w", root, err)
	}
	return stats, nil
}

// Extensions exposes the set of walked extensions, mainly for diagnostics.
func (idx *Indexer) Extensions() map[string]bool {
	allowed := idx.registry.Extensions()
	for ext := range chunker.SimpleExtensions {
		allowed[ext] = true
	}
	return allowed
}
