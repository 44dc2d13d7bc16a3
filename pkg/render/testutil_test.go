package render

import "github.com/vango-dev/wingman/pkg/node"

// passthrough returns its children unchanged.
var passthrough = node.ComponentFunc(func(children []node.Node) (node.Node, error) {
	return node.Seq(children), nil
})

func outputFile(path string, children ...any) *node.Element {
	return node.Primitive(node.IntrinsicOutputFile, passthrough, node.Props{"path": path}, children...)
}

func h(tag string, children ...any) *node.Element {
	return node.Tag(tag, nil, children...)
}
