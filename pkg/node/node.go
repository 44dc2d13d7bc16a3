package node

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindAbsent  Kind = iota // nil
	KindBool                // true/false, renders as nothing
	KindText                // plain string
	KindNumber              // numeric literal
	KindElement             // tag or component element
	KindSeq                 // ordered sequence of nodes
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "Absent"
	case KindBool:
		return "Bool"
	case KindText:
		return "Text"
	case KindNumber:
		return "Number"
	case KindElement:
		return "Element"
	case KindSeq:
		return "Seq"
	default:
		return "Unknown"
	}
}

// Node is a renderable value. The concrete types are Bool, Text, Number,
// *Element and Seq; a nil Node is absent.
type Node interface {
	isNode()
}

// Bool is a boolean node. It renders as nothing.
type Bool bool

// Text is a string node.
type Text string

// Number is a numeric node.
type Number float64

// Seq is an ordered sequence of nodes.
type Seq []Node

func (Bool) isNode()     {}
func (Text) isNode()     {}
func (Number) isNode()   {}
func (Seq) isNode()      {}
func (*Element) isNode() {}

// String returns the shortest decimal form of the number.
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// ErrInvalidNode is returned by From when a value has no node representation.
var ErrInvalidNode = errors.New("wingman: value is not a node")

// KindOf classifies n. A nil *Element counts as absent.
func KindOf(n Node) Kind {
	switch v := n.(type) {
	case nil:
		return KindAbsent
	case Bool:
		return KindBool
	case Text:
		return KindText
	case Number:
		return KindNumber
	case *Element:
		if v == nil {
			return KindAbsent
		}
		return KindElement
	case Seq:
		return KindSeq
	default:
		panic(fmt.Sprintf("node: unhandled node type %T", n))
	}
}

// IsElement reports whether v is a non-nil element.
func IsElement(v any) bool {
	el, ok := v.(*Element)
	return ok && el != nil
}

// From converts an arbitrary Go value into a Node.
//
// Accepted values are nil, Node values, bool, string, every integer and
// float type, Component, []Node, []any, []string and []*Element. Slices
// become a Seq; their elements are converted recursively.
func From(v any) (Node, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Node:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case int:
		return Number(x), nil
	case int8:
		return Number(x), nil
	case int16:
		return Number(x), nil
	case int32:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case uint:
		return Number(x), nil
	case uint8:
		return Number(x), nil
	case uint16:
		return Number(x), nil
	case uint32:
		return Number(x), nil
	case uint64:
		return Number(x), nil
	case float32:
		return Number(x), nil
	case float64:
		return Number(x), nil
	case Component:
		return Comp(x, nil), nil
	case []Node:
		return Seq(x), nil
	case []*Element:
		seq := make(Seq, len(x))
		for i, el := range x {
			seq[i] = el
		}
		return seq, nil
	case []string:
		seq := make(Seq, len(x))
		for i, s := range x {
			seq[i] = Text(s)
		}
		return seq, nil
	case []any:
		seq := make(Seq, 0, len(x))
		for _, item := range x {
			n, err := From(item)
			if err != nil {
				return nil, err
			}
			seq = append(seq, n)
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidNode, v)
	}
}

// MustFrom is like From but panics on unsupported values.
func MustFrom(v any) Node {
	n, err := From(v)
	if err != nil {
		panic(err)
	}
	return n
}
