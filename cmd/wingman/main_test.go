package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTree = `- h1: Project
- include: rules.md
- option:
    props: {key: language, default: go}
    cases:
      go: {p: Run go test.}
      python: {p: Run pytest.}
- skill:
    props: {name: release, description: Cut a release}
    children:
      - p: Tag, then publish.
`

func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"wingman.yaml":      "target: claude\ntargetDirectory: out\nincludeBase: .\n",
		"wingman.tree.yaml": testTree,
		"rules.md":          "Be kind.\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(append([]string{"--no-color"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInstall(t *testing.T) {
	dir := newProject(t)

	code, stdout, stderr := runCLI(t, "install", dir)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Wrote 2 files for claude")
	assert.Contains(t, stdout, "CLAUDE.md")
	assert.Contains(t, stdout, ".claude/skills/release/SKILL.md")

	main := readFile(t, filepath.Join(dir, "out", "CLAUDE.md"))
	assert.Contains(t, main, "# Project")
	assert.Contains(t, main, "Be kind.")
	assert.Contains(t, main, "Run go test.")
	assert.NotContains(t, main, "Tag, then publish.")

	skill := readFile(t, filepath.Join(dir, "out", ".claude", "skills", "release", "SKILL.md"))
	assert.Contains(t, skill, "name: release")
	assert.Contains(t, skill, "Tag, then publish.")
}

func TestInstallFlagsOverrideConfig(t *testing.T) {
	dir := newProject(t)
	target := filepath.Join(t.TempDir(), "elsewhere")

	code, _, stderr := runCLI(t, "compose", dir,
		"--target", "copilot",
		"-t", target,
		"-o", "language=python")
	require.Equal(t, 0, code, stderr)

	main := readFile(t, filepath.Join(target, ".github", "copilot-instructions.md"))
	assert.Contains(t, main, "Run pytest.")
	assert.FileExists(t, filepath.Join(target, ".github", "skills", "release", "SKILL.md"))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestInstallDryRun(t *testing.T) {
	dir := newProject(t)

	code, stdout, stderr := runCLI(t, "install", dir, "--dry-run")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Would write 2 files")
	assert.NoFileExists(t, filepath.Join(dir, "out", "CLAUDE.md"))
}

func TestInstallErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(dir string) []string
		code string
	}{
		{
			name: "malformed option",
			args: func(dir string) []string { return []string{"install", dir, "-o", "language"} },
			code: "W012",
		},
		{
			name: "empty option key",
			args: func(dir string) []string { return []string{"install", dir, "-o", "=go"} },
			code: "W012",
		},
		{
			name: "unknown target",
			args: func(dir string) []string { return []string{"install", dir, "--target", "gemini"} },
			code: "W011",
		},
		{
			name: "missing tree",
			args: func(dir string) []string { return []string{"install", dir, "--entry", filepath.Join(dir, "nope.yaml")} },
			code: "W020",
		},
		{
			name: "missing config file",
			args: func(dir string) []string { return []string{"install", "--config", filepath.Join(dir, "nope.yaml")} },
			code: "W010",
		},
		{
			name: "bad log level",
			args: func(dir string) []string { return []string{"install", dir, "--log-level", "loud"} },
			code: "W012",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newProject(t)
			code, _, stderr := runCLI(t, tt.args(dir)...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.code)
		})
	}
}

func TestInstallMissingInclude(t *testing.T) {
	dir := newProject(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "rules.md")))

	code, _, stderr := runCLI(t, "install", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "W003")
	assert.NoFileExists(t, filepath.Join(dir, "out", "CLAUDE.md"))
}

func TestInstallWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wingman.tree.yaml"), []byte("- h1: Bare\n"), 0644))

	code, _, stderr := runCLI(t, "install", dir)
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "# Bare\n", readFile(t, filepath.Join(dir, ".github", "copilot-instructions.md")))
}

func TestClean(t *testing.T) {
	dir := newProject(t)
	code, _, stderr := runCLI(t, "install", dir)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := runCLI(t, "clean", dir)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Removed 2 files")
	assert.NoFileExists(t, filepath.Join(dir, "out", "CLAUDE.md"))
	assert.NoFileExists(t, filepath.Join(dir, "out", ".claude", "skills", "release", "SKILL.md"))

	code, _, stderr = runCLI(t, "clean", dir)
	assert.Equal(t, 0, code, "cleaning twice skips missing files: %s", stderr)
}

func TestRender(t *testing.T) {
	dir := newProject(t)

	code, stdout, stderr := runCLI(t, "render", dir)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "==> CLAUDE.md <==\n# Project")
	assert.Contains(t, stdout, "==> .claude/skills/release/SKILL.md <==\n---\n")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestRenderJSON(t *testing.T) {
	dir := newProject(t)

	code, stdout, stderr := runCLI(t, "render", dir, "--json")
	require.Equal(t, 0, code, stderr)

	var files []struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &files))
	require.Len(t, files, 2)
	assert.Equal(t, "CLAUDE.md", files[0].Path)
	assert.Equal(t, ".claude/skills/release/SKILL.md", files[1].Path)
}

func TestLogLevelFromEnv(t *testing.T) {
	dir := newProject(t)
	t.Setenv("WINGMAN_LOG_LEVEL", "debug")

	code, _, stderr := runCLI(t, "render", dir)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "reading include")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version", "--short")
	assert.Equal(t, 0, code)
	assert.Equal(t, "dev\n", stdout)

	code, stdout, _ = runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "wingman dev")
	assert.Contains(t, stdout, "Go version")
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"language=go", "empty=", "eq=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"language": "go", "empty": "", "eq": "a=b"}, opts)

	_, err = parseOptions([]string{"novalue"})
	assert.Error(t, err)
}

func TestCovered(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "p")
	assert.True(t, covered([]string{root}, filepath.Join(root, "tree.yaml")))
	assert.True(t, covered([]string{root}, root))
	assert.False(t, covered([]string{root}, filepath.Join(string(filepath.Separator), "q", "tree.yaml")))
	assert.False(t, covered([]string{root}, filepath.Join(string(filepath.Separator), "p2")))
}
