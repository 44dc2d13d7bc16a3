package components

import (
	"strings"

	"github.com/vango-dev/wingman/pkg/node"
	"github.com/vango-dev/wingman/pkg/output"
)

// InstructionsProps configures path-scoped instructions.
type InstructionsProps struct {
	// ApplyTo is the glob the instructions apply to.
	ApplyTo string
	// Name is the file name without extension. Derived from ApplyTo if empty.
	Name string
}

// Instructions writes its children to .github/instructions/{name}.md with an
// applyTo frontmatter block.
func Instructions(props InstructionsProps, children ...any) *node.Element {
	return node.Comp(instructions{props: props}, node.Props{"applyTo": props.ApplyTo}, children...)
}

type instructions struct {
	props InstructionsProps
}

func (c instructions) Render(children []node.Node) (node.Node, error) {
	name := c.props.Name
	if name == "" {
		name = InstructionsName(c.props.ApplyTo)
	}
	return OutputFile(output.InstructionsPath(name),
		Frontmatter(Data{{Key: "applyTo", Value: c.props.ApplyTo}}),
		node.Seq(children),
	), nil
}

// InstructionsName derives a file name from a glob: "*" becomes "_" and "."
// becomes "-".
func InstructionsName(applyTo string) string {
	return strings.NewReplacer("*", "_", ".", "-").Replace(applyTo)
}
