// Package node provides the tree model Wingman components render from.
//
// A Node is one of six kinds: absent (nil), Bool, Text, Number, *Element, or
// Seq, an ordered sequence of nodes. Booleans and absent values render as
// nothing and exist so conditional authoring reads naturally:
//
//	node.Fragment(
//	    node.Tag("h1", nil, "Title"),
//	    node.If(cfg.Verbose, node.Tag("p", nil, "Details")),
//	)
//
// # Elements
//
// An Element carries a Type, a Props map and pre-flattened Children. The
// Type is either a markdown tag ("h1", "ul") or a Component. Components are
// tagged with an Intrinsic kind when the element is built, so the renderer
// and the include resolver recognize the OutputFile and Include primitives
// structurally rather than by name.
//
// # Flattening
//
// Flatten splices nested sequences and drops absent and boolean values.
// Every constructor in this package applies it when children are set, so an
// Element's Children never hold a Seq, a Bool, or nil.
package node
