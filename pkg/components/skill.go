package components

import (
	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/node"
	"github.com/vango-dev/wingman/pkg/output"
)

// SkillProps configures an agent skill.
type SkillProps struct {
	Name        string
	Description string
	License     string
	// Compatibility lists environment requirements.
	Compatibility string
	// AllowedTools is a space separated list of pre-approved tools.
	AllowedTools string
	Metadata     map[string]string
}

// Skill writes a SKILL.md to the location the active agent expects.
// Rendering for an agent without a skill layout fails with
// *output.UnsupportedAgentError.
func Skill(props SkillProps, children ...any) *node.Element {
	return node.Comp(skill{props: props}, node.Props{"name": props.Name}, children...)
}

type skill struct {
	props SkillProps
}

func (c skill) Render(children []node.Node) (node.Node, error) {
	ctx, err := composition.Use()
	if err != nil {
		return nil, err
	}
	path, err := output.SkillPath(ctx.AgentName, c.props.Name)
	if err != nil {
		return nil, err
	}
	return OutputFile(path, Frontmatter(c.frontmatter()), node.Seq(children)), nil
}

func (c skill) frontmatter() Data {
	p := c.props
	data := Data{{Key: "name", Value: p.Name}, {Key: "description", Value: p.Description}}
	if p.License != "" {
		data = append(data, Field{Key: "license", Value: p.License})
	}
	if p.Compatibility != "" {
		data = append(data, Field{Key: "compatibility", Value: p.Compatibility})
	}
	if p.AllowedTools != "" {
		data = append(data, Field{Key: "allowed-tools", Value: p.AllowedTools})
	}
	if len(p.Metadata) > 0 {
		data = append(data, Field{Key: "metadata", Value: p.Metadata})
	}
	return data
}
