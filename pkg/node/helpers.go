package node

import "fmt"

// Textf creates a formatted text node.
func Textf(format string, args ...any) Text {
	return Text(fmt.Sprintf(format, args...))
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, n Node) Node {
	if condition {
		return n
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse Node) Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() Node) Node {
	if condition {
		return fn()
	}
	return nil
}

// Unless is the inverse of If.
func Unless(condition bool, n Node) Node {
	if !condition {
		return n
	}
	return nil
}

// Case represents a case in a Switch statement.
type Case[T comparable] struct {
	Value     T
	Node      Node
	IsDefault bool
}

// On creates a case for Switch.
func On[T comparable](value T, n Node) Case[T] {
	return Case[T]{Value: value, Node: n}
}

// Default creates a default case for Switch.
func Default[T comparable](n Node) Case[T] {
	return Case[T]{Node: n, IsDefault: true}
}

// Switch returns the node for the matching case value.
// If no case matches and there's a default, the default node is returned.
func Switch[T comparable](value T, cases ...Case[T]) Node {
	for _, c := range cases {
		if !c.IsDefault && c.Value == value {
			return c.Node
		}
	}
	for _, c := range cases {
		if c.IsDefault {
			return c.Node
		}
	}
	return nil
}

// Range maps a slice to a sequence of nodes.
func Range[T any](items []T, fn func(item T, index int) Node) Seq {
	result := make(Seq, 0, len(items))
	for i, item := range items {
		result = append(result, fn(item, i))
	}
	return Seq(Flatten(result...))
}
