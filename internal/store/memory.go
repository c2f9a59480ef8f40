package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cortex/internal/chunker"
)

// MemoryGateway is an in-memory Gateway with naive keyword-overlap scoring.
// It exists for tests and offline experiments; it needs no embedder and no
// database, but honors the same upsert/query/count contract as the SQLite
// backend.
type MemoryGateway struct {
	mu    sync.RWMutex
	docs  map[string]memDoc
	order []string // insertion order, for deterministic ranking ties
}

type memDoc struct {
	content string
	meta    chunker.Metadata
	tokens  map[string]bool
}

// NewMemoryGateway creates an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{docs: make(map[string]memDoc)}
}

func (m *MemoryGateway) Upsert(ctx context.Context, ids []string, texts []string, metas []chunker.Metadata) error {
	if len(ids) != len(texts) || len(ids) != len(metas) {
		return gatewayErr("upsert", errMismatched(len(ids), len(texts), len(metas)))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		if _, exists := m.docs[id]; !exists {
			m.order = append(m.order, id)
		}
		m.docs[id] = memDoc{
			content: texts[i],
			meta:    metas[i],
			tokens:  tokenize(texts[i]),
		}
	}
	return nil
}

func (m *MemoryGateway) Query(ctx context.Context, text string, topK int) ([]Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	queryTokens := tokenize(text)
	if len(queryTokens) == 0 || topK <= 0 {
		return nil, nil
	}

	type scored struct {
		id    string
		score float64
	}
	var ranked []scored
	for _, id := range m.order {
		doc := m.docs[id]
		overlap := 0
		for tok := range queryTokens {
			if doc.tokens[tok] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		ranked = append(ranked, scored{id: id, score: float64(overlap) / float64(len(queryTokens))})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	hits := make([]Hit, len(ranked))
	for i, r := range ranked {
		doc := m.docs[r.id]
		hits[i] = Hit{Content: doc.content, Meta: doc.meta, Score: r.score}
	}
	return hits, nil
}

func (m *MemoryGateway) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

// Reset drops all stored documents.
func (m *MemoryGateway) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]memDoc)
	m.order = nil
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '_'
	}) {
		if len(tok) > 1 {
			tokens[tok] = true
		}
	}
	return tokens
}
