package components

import "github.com/vango-dev/wingman/pkg/node"

const fence = "```"

// CodeFence wraps its children in a fenced code block.
func CodeFence(language string, children ...any) *node.Element {
	return node.Comp(codeFence{language: language}, node.Props{"language": language}, children...)
}

type codeFence struct {
	language string
}

func (c codeFence) Render(children []node.Node) (node.Node, error) {
	return node.Seq{
		node.Text(fence + c.language + "\n"),
		node.Seq(children),
		node.Text("\n" + fence + "\n"),
	}, nil
}
