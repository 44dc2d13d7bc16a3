package components

import (
	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/node"
)

// OptionCase is one branch of an OptionSwitch.
type OptionCase struct {
	Value    string
	Children []node.Node
	fallback bool
}

// When selects children when the option equals value.
func When(value string, children ...any) OptionCase {
	return OptionCase{Value: value, Children: node.Flatten(node.Fragment(children...))}
}

// Otherwise selects children when no other case matches.
func Otherwise(children ...any) OptionCase {
	return OptionCase{Children: node.Flatten(node.Fragment(children...)), fallback: true}
}

// element turns the case into a child of the switch element, so include
// resolution reaches every branch.
func (c OptionCase) element() *node.Element {
	props := node.Props{"value": c.Value}
	if c.fallback {
		props = node.Props{"otherwise": true}
	}
	return node.Comp(optionCase{}, props, c.Children)
}

// OptionSwitch renders the first case matching the composition option key,
// or def when the option is not set.
//
//	components.OptionSwitch("language", "javascript",
//	    components.When("javascript", components.CodeFence("bash", "npm test")),
//	    components.When("python", components.CodeFence("bash", "pytest")),
//	)
func OptionSwitch(key, def string, cases ...OptionCase) *node.Element {
	children := make([]any, len(cases))
	for i, cs := range cases {
		children[i] = cs.element()
	}
	return node.Comp(optionSwitch{key: key, def: def}, node.Props{"key": key, "default": def}, children...)
}

type optionSwitch struct {
	key string
	def string
}

func (c optionSwitch) Render(children []node.Node) (node.Node, error) {
	ctx, err := composition.Use()
	if err != nil {
		return nil, err
	}
	value := ctx.OptionOr(c.key, c.def)

	var fallback node.Node
	for _, child := range children {
		el, ok := child.(*node.Element)
		if !ok || el == nil {
			continue
		}
		if _, isCase := el.Type.Component.(optionCase); !isCase {
			continue
		}
		if el.Props.Has("otherwise") {
			if fallback == nil {
				fallback = node.Seq(el.Children)
			}
			continue
		}
		if el.Props.String("value") == value {
			return node.Seq(el.Children), nil
		}
	}
	return fallback, nil
}

// optionCase renders its children. Outside a switch it is a plain group.
type optionCase struct{}

func (optionCase) Render(children []node.Node) (node.Node, error) {
	return node.Seq(children), nil
}
