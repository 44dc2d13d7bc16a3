package el

import (
	"github.com/vango-dev/wingman/pkg/components"
	"github.com/vango-dev/wingman/pkg/node"
)

// Type aliases for the node primitives used by the DSL.
type Node = node.Node
type Element = node.Element
type Props = node.Props
type Attr = node.Attr
type Seq = node.Seq
type Component = node.Component
type Case[T comparable] = node.Case[T]

// Component prop types.
type SkillProps = components.SkillProps
type InstructionsProps = components.InstructionsProps
type PluginProps = components.PluginProps
type PluginAuthor = components.PluginAuthor
type SubagentProps = components.SubagentProps
type Data = components.Data
type Field = components.Field
type OptionCase = components.OptionCase
