package node

// Flatten splices nested sequences into one ordered slice and drops absent
// and boolean values. Applying it to its own output returns an equal slice.
func Flatten(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = appendFlat(out, n)
	}
	return out
}

func appendFlat(out []Node, n Node) []Node {
	switch KindOf(n) {
	case KindAbsent, KindBool:
		return out
	case KindSeq:
		for _, child := range n.(Seq) {
			out = appendFlat(out, child)
		}
		return out
	default:
		return append(out, n)
	}
}
