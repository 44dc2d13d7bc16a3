package node

// Intrinsic tags the built-in primitives a component element may stand for.
type Intrinsic uint8

const (
	IntrinsicTag        Intrinsic = iota // markdown tag, no component
	IntrinsicComponent                   // user component
	IntrinsicOutputFile                  // rendered output diverted to a side file
	IntrinsicInclude                     // replaced by file contents before render
)

// String returns the string representation of the Intrinsic.
func (i Intrinsic) String() string {
	switch i {
	case IntrinsicTag:
		return "Tag"
	case IntrinsicComponent:
		return "Component"
	case IntrinsicOutputFile:
		return "OutputFile"
	case IntrinsicInclude:
		return "Include"
	default:
		return "Unknown"
	}
}

// Component is anything that can render to a Node.
//
// Render is invoked once per element during a render pass with the
// element's children. It must not block; configuration lives on the
// implementing value itself.
type Component interface {
	Render(children []Node) (Node, error)
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(children []Node) (Node, error)

// Render implements Component.
func (f ComponentFunc) Render(children []Node) (Node, error) {
	return f(children)
}

// Func creates a component from a render function that cannot fail.
func Func(render func(children []Node) Node) Component {
	return ComponentFunc(func(children []Node) (Node, error) {
		return render(children), nil
	})
}

// Type identifies what an element renders as.
type Type struct {
	Tag       string    // for IntrinsicTag
	Intrinsic Intrinsic // primitive tag, fixed at construction
	Component Component // for every intrinsic except IntrinsicTag
}

// IsComponent reports whether the type refers to a component.
func (t Type) IsComponent() bool {
	return t.Intrinsic != IntrinsicTag
}

// Props holds element properties. It never contains "children".
type Props map[string]any

// String returns the string value stored at key, or "" when the key is
// missing or not a string.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Has reports whether key is present.
func (p Props) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Attr is a single property, used with Build.
type Attr struct {
	Key   string
	Value any
}

// Element is a tag or component node.
type Element struct {
	Type     Type
	Props    Props
	Children []Node
}

// NewElement creates an element, flattening children. A "children" entry
// in props is moved in front of the explicit children.
func NewElement(t Type, props Props, children ...Node) *Element {
	clean := make(Props, len(props))
	var fromProps Node
	for k, v := range props {
		if k == "children" {
			fromProps = convert(v)
			continue
		}
		clean[k] = v
	}
	all := children
	if fromProps != nil {
		all = append([]Node{fromProps}, children...)
	}
	return &Element{
		Type:     t,
		Props:    clean,
		Children: Flatten(all...),
	}
}

// WithChildren returns a shallow copy of the element with new children.
// Type and props are shared with the receiver.
func (e *Element) WithChildren(children ...Node) *Element {
	return &Element{
		Type:     e.Type,
		Props:    e.Props,
		Children: Flatten(children...),
	}
}

// Tag creates a markdown tag element.
func Tag(tag string, props Props, children ...any) *Element {
	return NewElement(Type{Tag: tag}, props, convertAll(children)...)
}

// Comp creates a user component element.
func Comp(c Component, props Props, children ...any) *Element {
	return NewElement(Type{Intrinsic: IntrinsicComponent, Component: c}, props, convertAll(children)...)
}

// Primitive creates a component element tagged with a built-in intrinsic.
func Primitive(kind Intrinsic, c Component, props Props, children ...any) *Element {
	return NewElement(Type{Intrinsic: kind, Component: c}, props, convertAll(children)...)
}

// Build creates a tag element from a mixed argument list, the way the el
// package's constructors take them. Arguments can be Attr, []Attr, Props, or
// anything From accepts. Unsupported values are formatted as text.
func Build(tag string, args ...any) *Element {
	props := make(Props)
	children := make([]Node, 0, len(args))

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional children)
			continue
		case Attr:
			if v.Key != "" {
				props[v.Key] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					props[a.Key] = a.Value
				}
			}
		case Props:
			for k, val := range v {
				props[k] = val
			}
		default:
			children = append(children, convert(v))
		}
	}

	return NewElement(Type{Tag: tag}, props, children...)
}

// Fragment groups children without a wrapper.
func Fragment(children ...any) Seq {
	return Seq(Flatten(convertAll(children)...))
}

func convertAll(values []any) []Node {
	nodes := make([]Node, 0, len(values))
	for _, v := range values {
		nodes = append(nodes, convert(v))
	}
	return nodes
}

func convert(v any) Node {
	n, err := From(v)
	if err != nil {
		return Textf("%v", v)
	}
	return n
}
