package components

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/include"
	"github.com/vango-dev/wingman/pkg/node"
)

// OutputFile diverts its children into a separate file at path.
func OutputFile(path string, children ...any) *node.Element {
	return node.Primitive(node.IntrinsicOutputFile, outputFile{}, node.Props{"path": path}, children...)
}

type outputFile struct{}

func (outputFile) Render(children []node.Node) (node.Node, error) {
	return node.Seq(children), nil
}

// Include is replaced by the contents of src, relative to the include base,
// when the tree goes through include resolution. Rendered without that pass
// it reads the file relative to the target directory.
func Include(src string) *node.Element {
	props := node.Props{}
	if src != "" {
		props["src"] = src
	}
	return node.Primitive(node.IntrinsicInclude, includeFile{src: src}, props)
}

type includeFile struct {
	src string
}

func (c includeFile) Render([]node.Node) (node.Node, error) {
	if c.src == "" {
		return nil, include.ErrMissingIncludeSource
	}
	ctx, err := composition.Use()
	if err != nil {
		return nil, err
	}
	name := filepath.Join(ctx.TargetDirectory, c.src)
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, &include.ReadError{Path: name, Err: err}
	}
	return node.Text("\n\n" + strings.TrimSpace(string(data)) + "\n"), nil
}
