package chunker

// Candidate is a node the walker selected for chunking, together with the
// name of its enclosing container ("" at top level). Candidates are transient;
// the builder turns them into chunks within the same traversal.
type Candidate struct {
	Node      SyntaxNode
	Enclosing string
}

// Collect walks the tree under root and returns chunk candidates in document
// order. The traversal is iterative with an explicit work stack, so arbitrarily
// deep trees cannot exhaust the call stack.
//
// Containers yield a candidate for themselves under the current enclosing name
// and then have their children walked under their own extracted name, so a
// class produces both an aggregate candidate and per-member candidates.
// Ignored kinds are transparent: their children are walked with the enclosing
// name unchanged, which is what lets an export wrapper pass the declaration
// inside it through.
func Collect(root SyntaxNode, table KindTable) []Candidate {
	type frame struct {
		node      SyntaxNode
		enclosing string
	}

	var out []Candidate
	stack := make([]frame, 0, 32)

	// Children are pushed in reverse so the stack pops them in document order.
	pushChildren := func(n SyntaxNode, enclosing string) {
		for i := n.ChildCount() - 1; i >= 0; i-- {
			stack = append(stack, frame{node: n.Child(i), enclosing: enclosing})
		}
	}

	pushChildren(root, "")

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch table.Classify(f.node.Kind()) {
		case Container:
			out = append(out, Candidate{Node: f.node, Enclosing: f.enclosing})
			pushChildren(f.node, NodeName(f.node))
		case Extractable:
			out = append(out, Candidate{Node: f.node, Enclosing: f.enclosing})
		default:
			pushChildren(f.node, f.enclosing)
		}
	}

	return out
}
