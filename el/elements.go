// This file re-exports markdown element constructors for the el package.
package el

import "github.com/vango-dev/wingman/pkg/node"

// Arguments may be Attr, []Attr, Props, nodes, or any value node.From
// accepts.

func H1(args ...any) *Element {
	return node.Build("h1", args...)
}
func H2(args ...any) *Element {
	return node.Build("h2", args...)
}
func H3(args ...any) *Element {
	return node.Build("h3", args...)
}
func H4(args ...any) *Element {
	return node.Build("h4", args...)
}
func H5(args ...any) *Element {
	return node.Build("h5", args...)
}
func H6(args ...any) *Element {
	return node.Build("h6", args...)
}
func P(args ...any) *Element {
	return node.Build("p", args...)
}
func Strong(args ...any) *Element {
	return node.Build("strong", args...)
}
func B(args ...any) *Element {
	return node.Build("b", args...)
}
func Em(args ...any) *Element {
	return node.Build("em", args...)
}
func I(args ...any) *Element {
	return node.Build("i", args...)
}
func Code(args ...any) *Element {
	return node.Build("code", args...)
}
func Pre(args ...any) *Element {
	return node.Build("pre", args...)
}
func Blockquote(args ...any) *Element {
	return node.Build("blockquote", args...)
}
func Hr() *Element {
	return node.Build("hr")
}
func Br() *Element {
	return node.Build("br")
}

// A renders its content only; the href is kept as a prop.
func A(href string, args ...any) *Element {
	return node.Build("a", append([]any{node.Attr{Key: "href", Value: href}}, args...)...)
}
func Ul(args ...any) *Element {
	return node.Build("ul", args...)
}
func Ol(args ...any) *Element {
	return node.Build("ol", args...)
}
func Li(args ...any) *Element {
	return node.Build("li", args...)
}

// El builds an element for any tag. Unknown tags render their content.
func El(tag string, args ...any) *Element {
	return node.Build(tag, args...)
}

// Attribute helper.
func Prop(key string, value any) Attr {
	return node.Attr{Key: key, Value: value}
}
