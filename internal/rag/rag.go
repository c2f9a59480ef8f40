// Package rag assembles retrieved chunks into a bounded context string and a
// deduplicated source-citation list, and builds the LLM conversation around
// them.
package rag

import (
	"context"
	"fmt"
	"strings"

	"cortex/internal/chunker"
	"cortex/internal/llm"
	"cortex/internal/store"
)

const systemPrompt = `You are a codebase analysis assistant. You answer questions using the retrieved source code context provided below.

STRICT RULES:
1. ANALYZE EVERY chunk in the context - mention every file you received
2. ALWAYS cite specific filenames, class names, properties, and methods
3. When multiple files are provided, explain how they work together
4. If the context doesn't contain enough information, say which files you did see and what is missing
5. When showing code, quote EXACTLY from the provided context

Keep answers grounded in the context; do not speculate about code you were not shown.`

// dedupeByEndLine widens the identity key to include the end line. Keeping it
// off collapses overlapping matches on the same named unit at the same start,
// which is what retrieval wants.
const dedupeByEndLine = false

// identityKey identifies a logical code unit across near-duplicate hits.
// Distinct from the content identifier used for storage.
type identityKey struct {
	filename  string
	name      string
	startLine int
	endLine   int
}

func keyFor(m chunker.Metadata) identityKey {
	k := identityKey{filename: m.Filename, name: m.Name, startLine: m.StartLine}
	if dedupeByEndLine {
		k.endLine = m.EndLine
	}
	return k
}

// Source is one citation entry for a retrieved chunk, shaped for response
// formatting. Lines is "start-end" and empty when the chunk has no line range.
type Source struct {
	Filename string `json:"filename"`
	Name     string `json:"name,omitempty"`
	NodeKind string `json:"nodeType,omitempty"`
	Lines    string `json:"lines,omitempty"`
}

// AssembleContext deduplicates hits by identity key (first, best-ranked
// occurrence wins) and renders the context text plus the parallel source
// list. Empty hits produce an empty context and no sources.
func AssembleContext(hits []store.Hit) (string, []Source) {
	if len(hits) == 0 {
		return "", nil
	}

	seen := make(map[identityKey]bool, len(hits))
	var unique []store.Hit
	for _, h := range hits {
		k := keyFor(h.Meta)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, h)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %d RELEVANT CODE CHUNKS ===\n", len(unique))

	sources := make([]Source, 0, len(unique))
	for i, h := range unique {
		fmt.Fprintf(&b, "\n--- Chunk %d %s ---\n%s\n", i+1, annotate(h.Meta), h.Content)

		src := Source{Filename: h.Meta.Filename, NodeKind: h.Meta.NodeKind}
		if h.Meta.Name != chunker.AnonymousName {
			src.Name = h.Meta.Name
		}
		if h.Meta.StartLine > 0 {
			src.Lines = fmt.Sprintf("%d-%d", h.Meta.StartLine, h.Meta.EndLine)
		}
		sources = append(sources, src)
	}

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	return b.String(), sources
}

// annotate renders the one-line source tag shown above each chunk.
func annotate(m chunker.Metadata) string {
	if m.Name != "" && m.Name != chunker.AnonymousName {
		return fmt.Sprintf("[%s::%s]", m.Filename, m.Name)
	}
	return fmt.Sprintf("[%s]", m.Filename)
}

// Retrieve runs one similarity query against the gateway. An empty corpus
// short-circuits to no hits without touching the gateway's query operation.
// Gateway failures come back as *store.GatewayError so callers can degrade
// to answering without context.
func Retrieve(ctx context.Context, gw store.Gateway, query string, topK int) ([]store.Hit, error) {
	n, err := gw.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return gw.Query(ctx, query, topK)
}

// BuildMessages constructs the LLM conversation: system prompt, retrieved
// context (when present), prior history, and the current question.
func BuildMessages(contextText string, history []llm.Message, question string) []llm.Message {
	msgs := []llm.Message{{Role: "system", Content: systemPrompt}}

	if contextText != "" {
		msgs = append(msgs, llm.Message{Role: "user", Content: "Here is the relevant source code context:\n\n" + contextText})
		msgs = append(msgs, llm.Message{Role: "assistant", Content: "I've reviewed the code context. What would you like to know?"})
	}

	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: "user", Content: question})
	return msgs
}
