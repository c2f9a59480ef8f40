package languages

import (
	"cortex/internal/chunker"

	"github.com/smacker/go-tree-sitter/python"
)

func RegisterPython(r *chunker.Registry) {
	r.Register("python", &chunker.LanguageSpec{
		Language: python.GetLanguage(),
		Kinds: chunker.KindTable{
			Extract: chunker.Kinds(
				"function_definition",
				"class_definition",
				"decorated_definition",
			),
			// Class bodies ("block") stay transparent so methods inherit the
			// class name as their enclosing context.
			Container: chunker.Kinds("class_definition"),
		},
		Extensions: []string{"py", "pyi"},
	})
}
