package components

import (
	"github.com/vango-dev/wingman/pkg/node"
	"github.com/vango-dev/wingman/pkg/output"
)

// SubagentProps configures a subagent definition.
type SubagentProps struct {
	Name        string
	Description string
	Tools       []string
	Model       string
}

// Subagent writes a subagent definition to ./subagents/{name}.json.
func Subagent(props SubagentProps, children ...any) *node.Element {
	return node.Comp(subagent{props: props}, node.Props{"name": props.Name}, children...)
}

type subagent struct {
	props SubagentProps
}

func (c subagent) Render(children []node.Node) (node.Node, error) {
	p := c.props
	data := Data{{Key: "name", Value: p.Name}}
	if p.Description != "" {
		data = append(data, Field{Key: "description", Value: p.Description})
	}
	if p.Tools != nil {
		data = append(data, Field{Key: "tools", Value: p.Tools})
	}
	if p.Model != "" {
		data = append(data, Field{Key: "model", Value: p.Model})
	}
	return OutputFile(output.SubagentPath(p.Name), Frontmatter(data), node.Seq(children)), nil
}
