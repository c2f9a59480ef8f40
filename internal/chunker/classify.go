package chunker

// Class is the walker's decision for a node kind.
type Class int

const (
	// Ignored nodes are transparent: the walker descends into their
	// children without emitting anything. Unknown kinds land here, so the
	// walker degrades safely on unfamiliar syntax.
	Ignored Class = iota
	// Extractable nodes become one chunk each. The walker does not descend
	// into them.
	Extractable
	// Container nodes (classes) yield their own chunk and additionally have
	// their children walked with the container's name as enclosing context.
	Container
)

// KindTable is the per-language classification table. The tables are explicit
// and finite: a kind is extractable, a container, or it is ignored. No
// inference happens at walk time.
type KindTable struct {
	Extract   map[string]bool
	Container map[string]bool
}

// Classify returns the class for a node kind. Container wins over Extract so
// that a kind listed in both sets gets the dual treatment.
func (t KindTable) Classify(kind string) Class {
	if t.Container[kind] {
		return Container
	}
	if t.Extract[kind] {
		return Extractable
	}
	return Ignored
}

// Kinds builds a set from a list of kind names.
func Kinds(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
