package languages

import (
	"cortex/internal/chunker"

	"github.com/smacker/go-tree-sitter/javascript"
)

func RegisterJavaScript(r *chunker.Registry) {
	r.Register("javascript", &chunker.LanguageSpec{
		Language: javascript.GetLanguage(),
		Kinds:    jsKinds(),
		Extensions: []string{
			"js", "jsx", "mjs", "cjs",
		},
	})
}

// jsKinds is shared by JavaScript and TypeScript; TypeScript adds its own
// type-level declarations on top.
//
// export_statement is deliberately absent: it is ignored, so the walker
// passes through it and extracts the declaration inside under its own name.
func jsKinds() chunker.KindTable {
	return chunker.KindTable{
		Extract: chunker.Kinds(
			"function_declaration",
			"class_declaration",
			"method_definition",
			"lexical_declaration",
			"variable_declaration",
			"arrow_function",
			"expression_statement",
		),
		Container: chunker.Kinds("class_declaration"),
	}
}
