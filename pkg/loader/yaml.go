package loader

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/wingman/pkg/include"
	"github.com/vango-dev/wingman/pkg/node"
)

// YAML loads a tree file. It satisfies compose.Loader.
type YAML struct {
	// Path of the tree file.
	Path string

	// Source reads the file. Defaults to include.DirSource.
	Source include.Source
}

// Load reads and parses the tree file.
func (y *YAML) Load(ctx context.Context) (node.Node, error) {
	src := y.Source
	if src == nil {
		src = include.DirSource{}
	}
	data, err := src.ReadFile(ctx, y.Path)
	if err != nil {
		return nil, err
	}
	return Parse(y.Path, data)
}

// Parse parses tree YAML. path is only used in error messages.
func Parse(path string, data []byte) (node.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Msg: "invalid yaml", Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	p := &parser{path: path}
	return p.value(doc.Content[0])
}

type parser struct {
	path string
}

func (p *parser) errorf(n *yaml.Node, format string, args ...any) error {
	return &ParseError{Path: p.path, Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) wrap(n *yaml.Node, msg string, err error) error {
	return &ParseError{Path: p.path, Line: n.Line, Column: n.Column, Msg: msg, Err: err}
}

// value converts any YAML node into a tree node.
func (p *parser) value(n *yaml.Node) (node.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return p.value(n.Content[0])
	case yaml.AliasNode:
		return p.value(n.Alias)
	case yaml.ScalarNode:
		return p.scalar(n)
	case yaml.SequenceNode:
		seq := make(node.Seq, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := p.value(item)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, p.errorf(n, "element must have exactly one key, found %d", len(n.Content)/2)
		}
		return p.element(n.Content[0], n.Content[1])
	default:
		return nil, p.errorf(n, "unsupported yaml node")
	}
}

func (p *parser) scalar(n *yaml.Node) (node.Node, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, p.wrap(n, "invalid scalar", err)
	}
	out, err := node.From(v)
	if err != nil {
		// Timestamps and other exotic scalars stay as written.
		return node.Text(n.Value), nil
	}
	return out, nil
}

// body is the parsed value of an element key.
type body struct {
	pos       *yaml.Node
	scalar    *yaml.Node
	props     *yaml.Node
	children  []node.Node
	cases     *yaml.Node
	otherwise []node.Node
}

var bodyKeys = map[string]bool{"props": true, "children": true, "cases": true, "otherwise": true}

func (p *parser) body(n *yaml.Node) (*body, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	b := &body{pos: n}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return b, nil
		}
		b.scalar = n
		child, err := p.scalar(n)
		if err != nil {
			return nil, err
		}
		b.children = []node.Node{child}
	case yaml.SequenceNode:
		children, err := p.children(n)
		if err != nil {
			return nil, err
		}
		b.children = children
	case yaml.MappingNode:
		if !p.isBodyMapping(n) {
			child, err := p.value(n)
			if err != nil {
				return nil, err
			}
			b.children = []node.Node{child}
			return b, nil
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			switch key.Value {
			case "props":
				if val.Kind != yaml.MappingNode && val.Tag != "!!null" {
					return nil, p.errorf(val, "props must be a mapping")
				}
				b.props = val
			case "children":
				children, err := p.children(val)
				if err != nil {
					return nil, err
				}
				b.children = children
			case "cases":
				if val.Kind != yaml.MappingNode {
					return nil, p.errorf(val, "cases must be a mapping")
				}
				b.cases = val
			case "otherwise":
				children, err := p.children(val)
				if err != nil {
					return nil, err
				}
				b.otherwise = children
			default:
				return nil, p.errorf(key, "unknown element field %q", key.Value)
			}
		}
	}
	return b, nil
}

// isBodyMapping tells a props/children body apart from a single nested
// element such as {p: {strong: x}}.
func (p *parser) isBodyMapping(n *yaml.Node) bool {
	for i := 0; i < len(n.Content); i += 2 {
		if bodyKeys[n.Content[i].Value] {
			return true
		}
	}
	return len(n.Content) != 2
}

func (p *parser) children(n *yaml.Node) ([]node.Node, error) {
	v, err := p.value(n)
	if err != nil {
		return nil, err
	}
	return node.Flatten(v), nil
}

func (p *parser) element(key, value *yaml.Node) (node.Node, error) {
	if key.Kind != yaml.ScalarNode || key.Value == "" {
		return nil, p.errorf(key, "element key must be a non-empty string")
	}
	b, err := p.body(value)
	if err != nil {
		return nil, err
	}
	if build, ok := builders[key.Value]; ok {
		return build(p, b)
	}
	if b.cases != nil || b.otherwise != nil {
		return nil, p.errorf(b.pos, "cases are only valid for option")
	}
	props, err := p.tagProps(b.props)
	if err != nil {
		return nil, err
	}
	return node.NewElement(node.Type{Tag: key.Value}, props, b.children...), nil
}

func (p *parser) tagProps(n *yaml.Node) (node.Props, error) {
	if n == nil {
		return nil, nil
	}
	var props map[string]any
	if err := n.Decode(&props); err != nil {
		return nil, p.wrap(n, "invalid props", err)
	}
	return node.Props(props), nil
}

// decodeProps decodes a props mapping into a typed struct.
func (p *parser) decodeProps(b *body, out any) error {
	if b.props == nil {
		return nil
	}
	if err := b.props.Decode(out); err != nil {
		return p.wrap(b.props, "invalid props", err)
	}
	return nil
}

// Components lists the element keys that build components, sorted.
func Components() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
