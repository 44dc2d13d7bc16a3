package components

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/node"
	"github.com/vango-dev/wingman/pkg/output"
)

// PluginAuthor names a plugin author.
type PluginAuthor struct {
	Name string `json:"name,omitempty"`
}

// PluginProps is the plugin manifest.
type PluginProps struct {
	Name        string        `json:"name,omitempty"`
	Description string        `json:"description,omitempty"`
	Version     string        `json:"version,omitempty"`
	Author      *PluginAuthor `json:"author,omitempty"`
}

// Plugin writes a plugin manifest for agents that read one and renders
// nothing for the others.
func Plugin(props PluginProps) *node.Element {
	return node.Comp(plugin{props: props}, node.Props{"name": props.Name})
}

type plugin struct {
	props PluginProps
}

func (c plugin) Render([]node.Node) (node.Node, error) {
	ctx, err := composition.Use()
	if err != nil {
		return nil, err
	}
	path, ok := output.PluginManifest(ctx.AgentName)
	if !ok {
		return nil, nil
	}
	manifest, err := json.Marshal(c.props)
	if err != nil {
		return nil, fmt.Errorf("plugin manifest: %w", err)
	}
	return OutputFile(path, string(manifest)), nil
}
