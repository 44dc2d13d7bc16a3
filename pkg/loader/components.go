package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/wingman/pkg/components"
	"github.com/vango-dev/wingman/pkg/node"
)

type builder func(p *parser, b *body) (node.Node, error)

var builders map[string]builder

func init() {
	builders = map[string]builder{
		"include":      buildInclude,
		"outputFile":   buildOutputFile,
		"frontmatter":  buildFrontmatter,
		"codeFence":    buildCodeFence,
		"instructions": buildInstructions,
		"skill":        buildSkill,
		"plugin":       buildPlugin,
		"subagent":     buildSubagent,
		"option":       buildOption,
	}
}

func buildInclude(p *parser, b *body) (node.Node, error) {
	var props struct {
		Src string `yaml:"src"`
	}
	if b.scalar != nil {
		props.Src = b.scalar.Value
	}
	if err := p.decodeProps(b, &props); err != nil {
		return nil, err
	}
	if props.Src == "" {
		return nil, p.errorf(b.pos, "include needs a src")
	}
	return components.Include(props.Src), nil
}

func buildOutputFile(p *parser, b *body) (node.Node, error) {
	var props struct {
		Path string `yaml:"path"`
	}
	if err := p.decodeProps(b, &props); err != nil {
		return nil, err
	}
	if props.Path == "" {
		return nil, p.errorf(b.pos, "outputFile needs a path")
	}
	return components.OutputFile(props.Path, node.Seq(b.children)), nil
}

func buildFrontmatter(p *parser, b *body) (node.Node, error) {
	if b.props == nil {
		return components.Frontmatter(nil), nil
	}
	for i := 0; i+1 < len(b.props.Content); i += 2 {
		if b.props.Content[i].Value == "data" {
			data, err := p.frontmatterData(b.props.Content[i+1])
			if err != nil {
				return nil, err
			}
			return components.Frontmatter(data), nil
		}
	}
	return components.Frontmatter(nil), nil
}

// frontmatterData keeps the key order of the mapping.
func (p *parser) frontmatterData(n *yaml.Node) (components.Data, error) {
	if n.Kind != yaml.MappingNode {
		return nil, p.errorf(n, "frontmatter data must be a mapping")
	}
	data := make(components.Data, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var v any
		if val.Kind == yaml.MappingNode {
			nested, err := p.frontmatterData(val)
			if err != nil {
				return nil, err
			}
			v = nested
		} else if err := val.Decode(&v); err != nil {
			return nil, p.wrap(val, "invalid frontmatter value", err)
		}
		data = append(data, components.Field{Key: key.Value, Value: v})
	}
	return data, nil
}

func buildCodeFence(p *parser, b *body) (node.Node, error) {
	var props struct {
		Language string `yaml:"language"`
	}
	if err := p.decodeProps(b, &props); err != nil {
		return nil, err
	}
	return components.CodeFence(props.Language, node.Seq(b.children)), nil
}

func buildInstructions(p *parser, b *body) (node.Node, error) {
	var props struct {
		ApplyTo string `yaml:"applyTo"`
		Name    string `yaml:"name"`
	}
	if err := p.decodeProps(b, &props); err != nil {
		return nil, err
	}
	if props.ApplyTo == "" {
		return nil, p.errorf(b.pos, "instructions needs applyTo")
	}
	return components.Instructions(components.InstructionsProps{
		ApplyTo: props.ApplyTo,
		Name:    props.Name,
	}, node.Seq(b.children)), nil
}

func buildSkill(p *parser, b *body) (node.Node, error) {
	var props struct {
		Name          string            `yaml:"name"`
		Description   string            `yaml:"description"`
		License       string            `yaml:"license"`
		Compatibility string            `yaml:"compatibility"`
		AllowedTools  string            `yaml:"allowedTools"`
		Metadata      map[string]string `yaml:"metadata"`
	}
	if err := p.decodeProps(b, &props); err != nil {
		return nil, err
	}
	if props.Name == "" || props.Description == "" {
		return nil, p.errorf(b.pos, "skill needs a name and a description")
	}
	return components.Skill(components.SkillProps{
		Name:          props.Name,
		Description:   props.Description,
		License:       props.License,
		Compatibility: props.Compatibility,
		AllowedTools:  props.AllowedTools,
		Metadata:      props.Metadata,
	}, node.Seq(b.children)), nil
}

func buildPlugin(p *parser, b *body) (node.Node, error) {
	var props struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Version     string `yaml:"version"`
		Author      *struct {
			Name string `yaml:"name"`
		} `yaml:"author"`
	}
	if err := p.decodeProps(b, &props); err != nil {
		return nil, err
	}
	manifest := components.PluginProps{
		Name:        props.Name,
		Description: props.Description,
		Version:     props.Version,
	}
	if props.Author != nil {
		manifest.Author = &components.PluginAuthor{Name: props.Author.Name}
	}
	return components.Plugin(manifest), nil
}

func buildSubagent(p *parser, b *body) (node.Node, error) {
	var props struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Tools       []string `yaml:"tools"`
		Model       string   `yaml:"model"`
	}
	if err := p.decodeProps(b, &props); err != nil {
		return nil, err
	}
	if props.Name == "" {
		return nil, p.errorf(b.pos, "subagent needs a name")
	}
	return components.Subagent(components.SubagentProps{
		Name:        props.Name,
		Description: props.Description,
		Tools:       props.Tools,
		Model:       props.Model,
	}, node.Seq(b.children)), nil
}

func buildOption(p *parser, b *body) (node.Node, error) {
	var props struct {
		Key     string `yaml:"key"`
		Default string `yaml:"default"`
	}
	if err := p.decodeProps(b, &props); err != nil {
		return nil, err
	}
	if props.Key == "" {
		return nil, p.errorf(b.pos, "option needs a key")
	}
	var cases []components.OptionCase
	if b.cases != nil {
		for i := 0; i+1 < len(b.cases.Content); i += 2 {
			children, err := p.children(b.cases.Content[i+1])
			if err != nil {
				return nil, err
			}
			cases = append(cases, components.When(b.cases.Content[i].Value, node.Seq(children)))
		}
	}
	if b.otherwise != nil {
		cases = append(cases, components.Otherwise(node.Seq(b.otherwise)))
	}
	return components.OptionSwitch(props.Key, props.Default, cases...), nil
}
