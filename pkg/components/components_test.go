package components

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/include"
	"github.com/vango-dev/wingman/pkg/node"
	"github.com/vango-dev/wingman/pkg/output"
	"github.com/vango-dev/wingman/pkg/render"
)

func renderAs(t *testing.T, agent string, n node.Node, opts ...composition.Option) *render.Result {
	t.Helper()
	opts = append([]composition.Option{composition.WithAgent(agent)}, opts...)
	result, err := render.Render(n, composition.New(opts...))
	require.NoError(t, err)
	return result
}

func p(text string) *node.Element {
	return node.Tag("p", nil, text)
}

func TestOutputFileDiverts(t *testing.T) {
	result := renderAs(t, "copilot", node.Fragment(p("main"), OutputFile("x.md", p("side"))))

	assert.Equal(t, "main", result.Content)
	assert.Equal(t, []render.OutputFileDef{{Path: "x.md", Content: "side\n\n"}}, result.Metadata.OutputFiles)
}

func TestCodeFence(t *testing.T) {
	result := renderAs(t, "copilot", CodeFence("bash", "npm test"))
	assert.Equal(t, "```bash\nnpm test\n```", result.Content)

	result = renderAs(t, "copilot", CodeFence("", "plain"))
	assert.Equal(t, "```\nplain\n```", result.Content)
}

func TestInstructions(t *testing.T) {
	result := renderAs(t, "copilot", Instructions(InstructionsProps{ApplyTo: "*.ts"}, p("Use strict mode.")))

	assert.Empty(t, result.Content)
	require.Len(t, result.Metadata.OutputFiles, 1)
	assert.Equal(t, ".github/instructions/_-ts.md", result.Metadata.OutputFiles[0].Path)
	assert.Equal(t, "---\napplyTo: *.ts\n---\nUse strict mode.\n\n", result.Metadata.OutputFiles[0].Content)
}

func TestInstructionsExplicitName(t *testing.T) {
	result := renderAs(t, "copilot", Instructions(InstructionsProps{ApplyTo: "**/*.go", Name: "go"}, "x"))

	require.Len(t, result.Metadata.OutputFiles, 1)
	assert.Equal(t, ".github/instructions/go.md", result.Metadata.OutputFiles[0].Path)
}

func TestInstructionsName(t *testing.T) {
	assert.Equal(t, "_-ts", InstructionsName("*.ts"))
	assert.Equal(t, "src/__/_-test-js", InstructionsName("src/**/*.test.js"))
}

func TestSkillPerAgent(t *testing.T) {
	tests := map[string]string{
		"copilot":       ".github/skills/release/SKILL.md",
		"claude":        ".claude/skills/release/SKILL.md",
		"claude-plugin": "skills/release/SKILL.md",
	}
	for agent, want := range tests {
		t.Run(agent, func(t *testing.T) {
			tree := Skill(SkillProps{
				Name:          "release",
				Description:   "Cut a release: tag and publish",
				License:       "MIT",
				Compatibility: "git",
				AllowedTools:  "Bash Read",
				Metadata:      map[string]string{"owner": "infra"},
			}, p("Run make release."))

			result := renderAs(t, agent, tree)

			require.Len(t, result.Metadata.OutputFiles, 1)
			out := result.Metadata.OutputFiles[0]
			assert.Equal(t, want, out.Path)
			assert.Equal(t, "---\n"+
				"name: release\n"+
				"description: \"Cut a release: tag and publish\"\n"+
				"license: MIT\n"+
				"compatibility: git\n"+
				"allowed-tools: Bash Read\n"+
				"metadata:\n  owner: \"infra\"\n"+
				"---\n"+
				"Run make release.\n\n", out.Content)
		})
	}
}

func TestSkillOmitsEmptyOptionalFields(t *testing.T) {
	result := renderAs(t, "claude", Skill(SkillProps{Name: "a", Description: "b"}))

	require.Len(t, result.Metadata.OutputFiles, 1)
	assert.Equal(t, "---\nname: a\ndescription: b\n---\n", result.Metadata.OutputFiles[0].Content)
}

func TestSkillUnknownAgent(t *testing.T) {
	tree := node.Fragment(p("main"), Skill(SkillProps{Name: "a", Description: "b"}))

	result, err := render.Render(tree, composition.New(composition.WithAgent("gemini")))

	assert.Nil(t, result)
	var ua *output.UnsupportedAgentError
	require.ErrorAs(t, err, &ua)
	assert.Equal(t, "gemini", ua.Agent)
	assert.ErrorIs(t, err, output.ErrUnsupportedAgent)
	assert.False(t, composition.Default().Active(), "store left active after failed render")
}

func TestPlugin(t *testing.T) {
	tree := Plugin(PluginProps{Name: "tools", Version: "1.0.0", Author: &PluginAuthor{Name: "Ada"}})

	result := renderAs(t, "claude-plugin", tree)
	require.Len(t, result.Metadata.OutputFiles, 1)
	assert.Equal(t, ".claude-plugin/plugin.json", result.Metadata.OutputFiles[0].Path)
	assert.JSONEq(t, `{"name":"tools","version":"1.0.0","author":{"name":"Ada"}}`, result.Metadata.OutputFiles[0].Content)

	for _, agent := range []string{"copilot", "claude"} {
		result = renderAs(t, agent, tree)
		assert.Empty(t, result.Content)
		assert.Empty(t, result.Metadata.OutputFiles)
	}
}

func TestSubagent(t *testing.T) {
	tree := Subagent(SubagentProps{Name: "tester", Tools: []string{"Read", "Bash"}, Model: "fast"}, p("Run tests."))

	result := renderAs(t, "claude", tree)

	require.Len(t, result.Metadata.OutputFiles, 1)
	assert.Equal(t, "./subagents/tester.json", result.Metadata.OutputFiles[0].Path)
	assert.Equal(t, "---\nname: tester\ntools: [Read, Bash]\nmodel: fast\n---\nRun tests.\n\n",
		result.Metadata.OutputFiles[0].Content)
}

func TestOptionSwitch(t *testing.T) {
	tree := OptionSwitch("language", "javascript",
		When("javascript", CodeFence("bash", "npm test")),
		When("python", CodeFence("bash", "pytest")),
		Otherwise(p("No test command.")),
	)

	tests := []struct {
		name    string
		options map[string]string
		want    string
	}{
		{"default", nil, "```bash\nnpm test\n```"},
		{"python", map[string]string{"language": "python"}, "```bash\npytest\n```"},
		{"fallback", map[string]string{"language": "rust"}, "No test command."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := renderAs(t, "copilot", tree, composition.WithOptions(tt.options))
			assert.Equal(t, tt.want, result.Content)
		})
	}
}

func TestOptionSwitchWithoutFallback(t *testing.T) {
	tree := OptionSwitch("language", "go", When("python", "pytest"))

	result := renderAs(t, "copilot", tree)
	assert.Empty(t, result.Content)
}

func TestOptionSwitchCasesAreChildren(t *testing.T) {
	tree := OptionSwitch("language", "go",
		When("go", Include("go.md")),
		Otherwise("none"),
	)

	require.Len(t, tree.Children, 2)
	goCase := tree.Children[0].(*node.Element)
	assert.Equal(t, "go", goCase.Props.String("value"))
	require.Len(t, goCase.Children, 1)
	assert.Equal(t, node.IntrinsicInclude, goCase.Children[0].(*node.Element).Type.Intrinsic)
	assert.True(t, tree.Children[1].(*node.Element).Props.Has("otherwise"))
}

func TestIncludeRenderedDirectly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.md"), []byte("  Be kind.  "), 0o644))

	result := renderAs(t, "copilot", node.Fragment(p("Intro"), Include("rules.md")),
		composition.WithTargetDirectory(dir))

	assert.Equal(t, "Intro\n\nBe kind.", result.Content)
}

func TestIncludeErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := composition.New(composition.WithTargetDirectory(dir))

	_, err := render.Render(Include(""), ctx)
	assert.ErrorIs(t, err, include.ErrMissingIncludeSource)

	_, err = render.Render(Include("missing.md"), ctx)
	assert.ErrorIs(t, err, include.ErrIncludeRead)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var readErr *include.ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, filepath.Join(dir, "missing.md"), readErr.Path)
}

func TestIncludeResolvedBeforeRender(t *testing.T) {
	el := Include("a.md")
	assert.Equal(t, node.IntrinsicInclude, el.Type.Intrinsic)
	assert.Equal(t, "a.md", el.Props.String("src"))
	assert.False(t, Include("").Props.Has("src"))
}

func TestComponentsNeedContext(t *testing.T) {
	for name, c := range map[string]node.Component{
		"skill":   skill{props: SkillProps{Name: "a"}},
		"plugin":  plugin{},
		"option":  optionSwitch{key: "k"},
		"include": includeFile{src: "a.md"},
	} {
		_, err := c.Render(nil)
		if !errors.Is(err, composition.ErrContextUnavailable) {
			t.Errorf("%s: error = %v, want ErrContextUnavailable", name, err)
		}
	}
}
