package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/node"
)

// OutputFileDef is an artifact diverted out of the main document.
type OutputFileDef struct {
	Path    string
	Content string
}

// Metadata is collected alongside the main document during one pass.
type Metadata struct {
	// OutputFiles holds every OutputFile element's content, in tree order.
	OutputFiles []OutputFileDef
}

// Result is the outcome of one render pass.
type Result struct {
	// Content is the cleaned main document.
	Content string

	// Metadata holds the artifacts diverted during the same pass.
	Metadata Metadata
}

// RendererConfig configures the markdown renderer.
type RendererConfig struct {
	// Store receives the composition context for the duration of a pass.
	// Defaults to composition.Default(), which is what built-in components
	// read from.
	Store *composition.Store

	// NoWait makes Render fail with composition.ErrPassActive instead of
	// waiting when another pass holds the store. Set it for renderers used
	// from inside a component, where waiting would never end.
	NoWait bool
}

// Renderer renders node trees to markdown.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Store == nil {
		config.Store = composition.Default()
	}
	return &Renderer{config: config}
}

// Render renders n under ctx using the default store.
func Render(n node.Node, ctx *composition.Context) (*Result, error) {
	return NewRenderer(RendererConfig{}).Render(n, ctx)
}

// Render runs one render pass over n.
func (r *Renderer) Render(n node.Node, ctx *composition.Context) (*Result, error) {
	if ctx == nil {
		ctx = composition.New()
	}
	release, err := r.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	p := &pass{}
	content, err := p.renderNode(n)
	if err != nil {
		return nil, err
	}

	return &Result{
		Content:  Clean(content),
		Metadata: Metadata{OutputFiles: p.outputs},
	}, nil
}

func (r *Renderer) enter(ctx *composition.Context) (func(), error) {
	if r.config.NoWait {
		return r.config.Store.TryEnter(ctx)
	}
	return r.config.Store.Enter(ctx), nil
}

// RenderToWriter renders n and writes the main document to w.
func (r *Renderer) RenderToWriter(w io.Writer, n node.Node, ctx *composition.Context) (*Result, error) {
	res, err := r.Render(n, ctx)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, res.Content); err != nil {
		return nil, err
	}
	return res, nil
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// CollapseNewlines replaces every run of three or more newlines with two.
func CollapseNewlines(s string) string {
	return excessNewlines.ReplaceAllString(s, "\n\n")
}

// Clean collapses excess newlines and trims surrounding whitespace.
func Clean(s string) string {
	return strings.TrimSpace(CollapseNewlines(s))
}

// pass holds the state of one render pass.
type pass struct {
	outputs []OutputFileDef
}

// renderNode dispatches rendering based on node kind.
func (p *pass) renderNode(n node.Node) (string, error) {
	switch node.KindOf(n) {
	case node.KindAbsent, node.KindBool:
		return "", nil
	case node.KindText:
		s := string(n.(node.Text))
		// Whitespace-only strings are authoring artifacts between elements.
		if strings.TrimSpace(s) == "" {
			return "", nil
		}
		return s, nil
	case node.KindNumber:
		return n.(node.Number).String(), nil
	case node.KindSeq:
		return p.renderSeq(n.(node.Seq))
	case node.KindElement:
		return p.renderElement(n.(*node.Element))
	default:
		return "", fmt.Errorf("render: unknown node kind %v", node.KindOf(n))
	}
}

// renderSeq renders nodes in order and concatenates the results.
func (p *pass) renderSeq(nodes []node.Node) (string, error) {
	var b strings.Builder
	for _, child := range nodes {
		s, err := p.renderNode(child)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// renderElement renders a component or a markdown tag.
func (p *pass) renderElement(el *node.Element) (string, error) {
	if !el.Type.IsComponent() {
		// Lists render their li children themselves; rendering them here
		// as well would run nested components twice.
		if marker, ok := listMarkers[el.Type.Tag]; ok {
			return p.renderList(el.Children, marker)
		}
		content, err := p.renderSeq(el.Children)
		if err != nil {
			return "", err
		}
		return p.renderTag(el, content)
	}

	if el.Type.Component == nil {
		return "", fmt.Errorf("render: %s element has no component", el.Type.Intrinsic)
	}

	out, err := el.Type.Component.Render(el.Children)
	if err != nil {
		return "", err
	}

	if el.Type.Intrinsic == node.IntrinsicOutputFile && el.Props.Has("path") {
		content, err := p.renderNode(out)
		if err != nil {
			return "", err
		}
		p.outputs = append(p.outputs, OutputFileDef{
			Path:    propString(el.Props, "path"),
			Content: content,
		})
		return "", nil
	}

	return p.renderNode(out)
}

func propString(props node.Props, key string) string {
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
