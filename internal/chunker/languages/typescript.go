package languages

import (
	"cortex/internal/chunker"

	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// RegisterTypeScript registers both the typescript and tsx grammars. They
// share one classification table; only the parser differs (the plain
// TypeScript grammar chokes on JSX).
func RegisterTypeScript(r *chunker.Registry) {
	kinds := tsKinds()

	r.Register("typescript", &chunker.LanguageSpec{
		Language:   typescript.GetLanguage(),
		Kinds:      kinds,
		Extensions: []string{"ts"},
	})
	r.Register("tsx", &chunker.LanguageSpec{
		Language:   tsx.GetLanguage(),
		Kinds:      kinds,
		Extensions: []string{"tsx"},
	})
}

func tsKinds() chunker.KindTable {
	t := jsKinds()
	for _, kind := range []string{
		"interface_declaration",
		"type_alias_declaration",
		"enum_declaration",
	} {
		t.Extract[kind] = true
	}
	return t
}
