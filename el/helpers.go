// This file re-exports node helpers and built-in components for the el package.
package el

import (
	"github.com/vango-dev/wingman/pkg/components"
	"github.com/vango-dev/wingman/pkg/node"
)

func Text(content string) node.Text {
	return node.Text(content)
}
func Textf(format string, args ...any) node.Text {
	return node.Textf(format, args...)
}
func Fragment(children ...any) Seq {
	return node.Fragment(children...)
}
func If(condition bool, n Node) Node {
	return node.If(condition, n)
}
func IfElse(condition bool, ifTrue, ifFalse Node) Node {
	return node.IfElse(condition, ifTrue, ifFalse)
}
func When(condition bool, fn func() Node) Node {
	return node.When(condition, fn)
}
func Unless(condition bool, n Node) Node {
	return node.Unless(condition, n)
}
func Case_[T comparable](value T, n Node) Case[T] {
	return node.On(value, n)
}
func Default[T comparable](n Node) Case[T] {
	return node.Default[T](n)
}
func Switch[T comparable](value T, cases ...Case[T]) Node {
	return node.Switch(value, cases...)
}
func Range[T any](items []T, fn func(item T, index int) Node) Seq {
	return node.Range(items, fn)
}

func OutputFile(path string, children ...any) *Element {
	return components.OutputFile(path, children...)
}
func Include(src string) *Element {
	return components.Include(src)
}
func Frontmatter(data Data) *Element {
	return components.Frontmatter(data)
}
func CodeFence(language string, children ...any) *Element {
	return components.CodeFence(language, children...)
}
func Instructions(props InstructionsProps, children ...any) *Element {
	return components.Instructions(props, children...)
}
func Skill(props SkillProps, children ...any) *Element {
	return components.Skill(props, children...)
}
func Plugin(props PluginProps) *Element {
	return components.Plugin(props)
}
func Subagent(props SubagentProps, children ...any) *Element {
	return components.Subagent(props, children...)
}
func OptionSwitch(key, def string, cases ...OptionCase) *Element {
	return components.OptionSwitch(key, def, cases...)
}
func OptionWhen(value string, children ...any) OptionCase {
	return components.When(value, children...)
}
func OptionOtherwise(children ...any) OptionCase {
	return components.Otherwise(children...)
}
