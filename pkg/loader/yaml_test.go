package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/include"
	"github.com/vango-dev/wingman/pkg/node"
	"github.com/vango-dev/wingman/pkg/render"
)

func parse(t *testing.T, src string) node.Node {
	t.Helper()
	n, err := Parse("test.yaml", []byte(src))
	require.NoError(t, err)
	return n
}

func renderTree(t *testing.T, n node.Node, opts ...composition.Option) *render.Result {
	t.Helper()
	result, err := render.Render(n, composition.New(opts...))
	require.NoError(t, err)
	return result
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		src  string
		want node.Node
	}{
		{"hello", node.Text("hello")},
		{"42", node.Number(42)},
		{"1.5", node.Number(1.5)},
		{"true", node.Bool(true)},
		{"~", nil},
		{"", nil},
		{"[a, 1]", node.Seq{node.Text("a"), node.Number(1)}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parse(t, tt.src), "source %q", tt.src)
	}
}

func TestParseTags(t *testing.T) {
	n := parse(t, `
- h1: Title
- p: Body
`)
	assert.Equal(t, "# Title\n\nBody", renderTree(t, n).Content)
}

func TestParseNestedElementBody(t *testing.T) {
	n := parse(t, `p: {strong: bold}`)
	assert.Equal(t, "**bold**", renderTree(t, n).Content)
}

func TestParseTagProps(t *testing.T) {
	n := parse(t, `
a:
  props: {href: "https://example.com"}
  children: docs
`)
	el, ok := n.(*node.Element)
	require.True(t, ok)
	assert.Equal(t, "a", el.Type.Tag)
	assert.Equal(t, "https://example.com", el.Props.String("href"))
	assert.Equal(t, []node.Node{node.Text("docs")}, el.Children)
}

func TestParseEmptyElement(t *testing.T) {
	n := parse(t, `- hr:`)
	assert.Equal(t, "---", renderTree(t, n).Content)
}

func TestParseInclude(t *testing.T) {
	for _, src := range []string{"include: rules.md", "include: {props: {src: rules.md}}"} {
		n := parse(t, src)
		el, ok := n.(*node.Element)
		require.True(t, ok, src)
		assert.Equal(t, node.IntrinsicInclude, el.Type.Intrinsic)
		assert.Equal(t, "rules.md", el.Props.String("src"))
	}
}

func TestParseFrontmatterKeepsOrder(t *testing.T) {
	n := parse(t, `
frontmatter:
  props:
    data:
      zeta: last-key-first
      alpha: "a: b"
      tools: [Read, Grep]
      meta: {owner: infra}
`)
	want := "---\nzeta: last-key-first\nalpha: \"a: b\"\ntools: [Read, Grep]\nmeta:\n  owner: \"infra\"\n---"
	assert.Equal(t, want, renderTree(t, n).Content)
}

func TestParseTestdataTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "rules.md"), []byte("Be kind."), 0o644))

	y := &YAML{Path: filepath.Join("testdata", "tree.yaml")}
	tree, err := y.Load(context.Background())
	require.NoError(t, err)

	resolved, err := include.Resolve(context.Background(), tree, dir)
	require.NoError(t, err)

	result := renderTree(t, resolved,
		composition.WithAgent("claude"),
		composition.WithOptions(map[string]string{"language": "python"}))

	assert.Equal(t, "# Contributing\n\n"+
		"Run `make test` before pushing.\n\n"+
		"- Small commits\n- Descriptive messages\n\n"+
		"Be kind.\n"+
		"```bash\npytest\n```", result.Content)

	require.Len(t, result.Metadata.OutputFiles, 2)
	assert.Equal(t, ".github/instructions/_-go.md", result.Metadata.OutputFiles[0].Path)
	assert.Equal(t, "---\napplyTo: *.go\n---\nRun gofmt.\n\n", result.Metadata.OutputFiles[0].Content)
	assert.Equal(t, ".claude/skills/release/SKILL.md", result.Metadata.OutputFiles[1].Path)
	assert.Contains(t, result.Metadata.OutputFiles[1].Content, "allowed-tools: Bash\nmetadata:\n  owner: \"infra\"\n")
}

func TestParseOptionOtherwise(t *testing.T) {
	y := &YAML{Path: filepath.Join("testdata", "tree.yaml")}
	tree, err := y.Load(context.Background())
	require.NoError(t, err)

	seq := tree.(node.Seq)
	option := seq[len(seq)-1]

	result := renderTree(t, option, composition.WithOptions(map[string]string{"language": "rust"}))
	assert.Equal(t, "No test command.", result.Content)
}

func TestLoadUsesSource(t *testing.T) {
	src := include.SourceFunc(func(ctx context.Context, name string) ([]byte, error) {
		assert.Equal(t, "remote/tree.yaml", name)
		return []byte("p: from source"), nil
	})

	tree, err := (&YAML{Path: "remote/tree.yaml", Source: src}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from source", renderTree(t, tree).Content)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := (&YAML{Path: filepath.Join(t.TempDir(), "nope.yaml")}).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestComponents(t *testing.T) {
	assert.Equal(t, []string{
		"codeFence", "frontmatter", "include", "instructions", "option",
		"outputFile", "plugin", "skill", "subagent",
	}, Components())
}
