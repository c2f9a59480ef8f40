package languages

import (
	"cortex/internal/chunker"

	"github.com/smacker/go-tree-sitter/golang"
)

func RegisterGo(r *chunker.Registry) {
	r.Register("go", &chunker.LanguageSpec{
		Language: golang.GetLanguage(),
		Kinds: chunker.KindTable{
			// Go has no member-bearing containers: methods are top-level
			// declarations, so every extractable kind is a leaf.
			Extract: chunker.Kinds(
				"function_declaration",
				"method_declaration",
				"type_declaration",
			),
		},
		Extensions: []string{"go"},
	})
}
