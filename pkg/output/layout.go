package output

import (
	"errors"
	"fmt"
	"path"

	"github.com/vango-dev/wingman/pkg/composition"
)

// ErrUnsupportedAgent is matched by every *UnsupportedAgentError.
var ErrUnsupportedAgent = errors.New("output: unsupported agent")

// UnsupportedAgentError reports a layout lookup for an agent with no entry in
// the layout table.
type UnsupportedAgentError struct {
	Agent string
}

func (e *UnsupportedAgentError) Error() string {
	return fmt.Sprintf("unsupported agent name: %s", e.Agent)
}

func (e *UnsupportedAgentError) Unwrap() error {
	return ErrUnsupportedAgent
}

// Well-known output paths.
const (
	CopilotInstructionsPath = ".github/copilot-instructions.md"
	ClaudeInstructionsPath  = "CLAUDE.md"
	PluginManifestPath      = ".claude-plugin/plugin.json"
)

// Profile describes where an agent expects the main document.
type Profile struct {
	Agent            string
	InstructionsPath string
}

// ProfileFor returns the output profile for an agent. Agents without their
// own entry share the Claude layout.
func ProfileFor(agent string) Profile {
	switch agent {
	case composition.AgentCopilot:
		return Profile{Agent: agent, InstructionsPath: CopilotInstructionsPath}
	default:
		return Profile{Agent: agent, InstructionsPath: ClaudeInstructionsPath}
	}
}

// SkillPath returns the SKILL.md location of a named skill for agent.
func SkillPath(agent, name string) (string, error) {
	switch agent {
	case composition.AgentCopilot:
		return path.Join(".github/skills", name, "SKILL.md"), nil
	case composition.AgentClaude:
		return path.Join(".claude/skills", name, "SKILL.md"), nil
	case composition.AgentClaudePlugin:
		return path.Join("skills", name, "SKILL.md"), nil
	default:
		return "", &UnsupportedAgentError{Agent: agent}
	}
}

// PluginManifest reports whether agent reads a plugin manifest and where.
func PluginManifest(agent string) (string, bool) {
	if agent == composition.AgentClaudePlugin {
		return PluginManifestPath, true
	}
	return "", false
}

// InstructionsPath returns the path of a scoped instructions file.
func InstructionsPath(name string) string {
	return ".github/instructions/" + name + ".md"
}

// SubagentPath returns the path of a subagent definition.
func SubagentPath(name string) string {
	return "./subagents/" + name + ".json"
}
