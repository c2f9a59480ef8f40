// Package languages holds the per-language classification tables that decide
// which syntax-tree node kinds become chunks.
package languages

import "cortex/internal/chunker"

// Default returns a registry with every supported grammar registered.
func Default() *chunker.Registry {
	r := chunker.NewRegistry()
	RegisterPython(r)
	RegisterJavaScript(r)
	RegisterTypeScript(r)
	RegisterGo(r)
	return r
}
