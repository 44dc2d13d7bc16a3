package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/node"
)

func TestRenderScalars(t *testing.T) {
	tests := []struct {
		name string
		node node.Node
		want string
	}{
		{"nil", nil, ""},
		{"true", node.Bool(true), ""},
		{"false", node.Bool(false), ""},
		{"text", node.Text("Hello, World!"), "Hello, World!"},
		{"whitespace text", node.Text(" \n\t "), ""},
		{"integer", node.Number(42), "42"},
		{"float", node.Number(2.5), "2.5"},
		{"sequence", node.Seq{node.Text("a"), nil, node.Number(1), node.Text("b")}, "a1b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Render(tt.node, composition.New())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Content != tt.want {
				t.Errorf("got %q, want %q", res.Content, tt.want)
			}
		})
	}
}

func TestRenderTags(t *testing.T) {
	p := &pass{}
	tests := []struct {
		tag  string
		want string
	}{
		{"h1", "# x\n\n"},
		{"h2", "## x\n\n"},
		{"h3", "### x\n\n"},
		{"h4", "#### x\n\n"},
		{"h5", "##### x\n\n"},
		{"h6", "###### x\n\n"},
		{"p", "x\n\n"},
		{"strong", "**x**"},
		{"b", "**x**"},
		{"em", "*x*"},
		{"i", "*x*"},
		{"code", "`x`"},
		{"pre", "```\nx\n```\n\n"},
		{"blockquote", "> x\n\n"},
		{"hr", "---\n\n"},
		{"br", "\n"},
		{"a", "x"},
		{"li", "x"},
		{"div", "x"},
		{"section", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := p.renderNode(node.Tag(tt.tag, node.Props{"href": "ignored"}, "x"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderBlockquoteMultiline(t *testing.T) {
	p := &pass{}
	got, err := p.renderNode(h("blockquote", "one\ntwo"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "> one\n> two\n\n" {
		t.Errorf("got %q", got)
	}
}

func TestRenderListFiltersNonItems(t *testing.T) {
	p := &pass{}

	got, err := p.renderNode(h("ul", "  ", h("li", "a"), h("li", "b")))
	if err != nil {
		t.Fatal(err)
	}
	if got != "- a\n- b\n\n" {
		t.Errorf("ul: got %q", got)
	}

	got, err = p.renderNode(h("ol", h("li", "a"), "\n", h("p", "skipped"), h("li", h("strong", "b"))))
	if err != nil {
		t.Fatal(err)
	}
	if got != "1. a\n1. **b**\n\n" {
		t.Errorf("ol: got %q", got)
	}

	got, err = p.renderNode(h("ul"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "\n\n" {
		t.Errorf("empty list: got %q", got)
	}
}

func TestRenderHeadingScenario(t *testing.T) {
	tree := node.Seq{h("h1", "Title"), h("p", "Body")}

	p := &pass{}
	raw, err := p.renderNode(tree)
	if err != nil {
		t.Fatal(err)
	}
	if raw != "# Title\n\nBody\n\n" {
		t.Errorf("raw = %q", raw)
	}

	res, err := Render(tree, composition.New())
	if err != nil {
		t.Fatal(err)
	}
	if res.Content != "# Title\n\nBody" {
		t.Errorf("content = %q", res.Content)
	}
}

func TestRenderCollapsesNewlines(t *testing.T) {
	tree := node.Seq{h("p", "a"), h("br"), h("br"), h("p", "b"), node.Text("\n\n\n\n")}
	res, err := Render(tree, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Content != "a\n\nb" {
		t.Errorf("got %q", res.Content)
	}
}

func TestRenderComponent(t *testing.T) {
	calls := 0
	greet := node.ComponentFunc(func(children []node.Node) (node.Node, error) {
		calls++
		return h("p", "Hello ", node.Seq(children)), nil
	})

	res, err := Render(node.Comp(greet, nil, "world"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Content != "Hello world" {
		t.Errorf("got %q", res.Content)
	}
	if calls != 1 {
		t.Errorf("component invoked %d times, want 1", calls)
	}
}

func TestRenderComponentReadsContext(t *testing.T) {
	agent := node.ComponentFunc(func([]node.Node) (node.Node, error) {
		ctx, err := composition.Use()
		if err != nil {
			return nil, err
		}
		return node.Text(ctx.AgentName), nil
	})

	res, err := Render(node.Comp(agent, nil), composition.New(composition.WithAgent("claude")))
	if err != nil {
		t.Fatal(err)
	}
	if res.Content != "claude" {
		t.Errorf("got %q", res.Content)
	}
	if composition.Default().Active() {
		t.Error("context not cleared after render")
	}
}

func TestRenderComponentErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	failing := node.ComponentFunc(func([]node.Node) (node.Node, error) {
		return nil, boom
	})

	_, err := Render(h("p", node.Comp(failing, nil)), nil)
	if err != boom {
		t.Fatalf("err = %v, want the component's error unchanged", err)
	}
	if composition.Default().Active() {
		t.Error("context leaked after failed render")
	}
}

func TestRenderPanicClearsContext(t *testing.T) {
	panicking := node.ComponentFunc(func([]node.Node) (node.Node, error) {
		panic("bad component")
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_, _ = Render(node.Comp(panicking, nil), nil)
	}()

	if composition.Default().Active() {
		t.Error("context leaked after panic")
	}
}

func TestRenderMissingComponent(t *testing.T) {
	el := &node.Element{Type: node.Type{Intrinsic: node.IntrinsicComponent}}
	if _, err := Render(el, nil); err == nil {
		t.Fatal("expected error for component element without component")
	}
}

func TestRenderUsesConfiguredStore(t *testing.T) {
	store := composition.NewStore()
	r := NewRenderer(RendererConfig{Store: store})

	seen := false
	watch := node.ComponentFunc(func([]node.Node) (node.Node, error) {
		seen = store.Active()
		return nil, nil
	})
	if _, err := r.Render(node.Comp(watch, nil), nil); err != nil {
		t.Fatal(err)
	}
	if !seen {
		t.Error("context was not installed in the configured store")
	}
	if store.Active() {
		t.Error("configured store not cleared")
	}
}

func TestRenderNoWaitInsidePass(t *testing.T) {
	store := composition.NewStore()
	inner := NewRenderer(RendererConfig{Store: store, NoWait: true})

	var nestedErr error
	nested := node.ComponentFunc(func([]node.Node) (node.Node, error) {
		_, nestedErr = inner.Render(node.Text("sub"), nil)
		return node.Text("outer"), nil
	})

	res, err := NewRenderer(RendererConfig{Store: store}).Render(node.Comp(nested, nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Content != "outer" {
		t.Errorf("Content = %q, want %q", res.Content, "outer")
	}
	if !errors.Is(nestedErr, composition.ErrPassActive) {
		t.Errorf("nested render error = %v, want ErrPassActive", nestedErr)
	}

	// Outside a pass the same renderer works.
	res, err = inner.Render(node.Text("sub"), nil)
	if err != nil || res.Content != "sub" {
		t.Errorf("Render() = %v, %v", res, err)
	}
}

func TestRenderToWriter(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(RendererConfig{})
	res, err := r.RenderToWriter(&buf, h("h2", "Setup"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "## Setup" || res.Content != buf.String() {
		t.Errorf("wrote %q, content %q", buf.String(), res.Content)
	}
}

func TestIsKnownTag(t *testing.T) {
	for _, tag := range []string{"h1", "h6", "ul", "ol", "li", "p", "pre", "a"} {
		if !IsKnownTag(tag) {
			t.Errorf("IsKnownTag(%q) = false", tag)
		}
	}
	for _, tag := range []string{"div", "span", "h7", ""} {
		if IsKnownTag(tag) {
			t.Errorf("IsKnownTag(%q) = true", tag)
		}
	}
}

func TestCleanTrims(t *testing.T) {
	if got := Clean("\n\n  # a\n\n\n\nb  \n"); got != "# a\n\nb" {
		t.Errorf("got %q", got)
	}
	if got := CollapseNewlines("a\n\nb"); got != "a\n\nb" {
		t.Errorf("two newlines should be kept, got %q", got)
	}
	if strings.Contains(CollapseNewlines("a\n\n\n\n\nb"), "\n\n\n") {
		t.Error("runs of newlines not collapsed")
	}
}
