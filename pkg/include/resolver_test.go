package include

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/wingman/pkg/node"
)

var noop = node.Func(func(children []node.Node) node.Node { return nil })

func includeEl(src string) *node.Element {
	props := node.Props{}
	if src != "" {
		props["src"] = src
	}
	return node.Primitive(node.IntrinsicInclude, noop, props)
}

// countingSource records reads and serves from a map.
type countingSource struct {
	mu    sync.Mutex
	files map[string]string
	reads []string
	delay func(name string) time.Duration
}

func (s *countingSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if s.delay != nil {
		select {
		case <-time.After(s.delay(name)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	s.reads = append(s.reads, name)
	s.mu.Unlock()
	content, ok := s.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(content), nil
}

func TestResolveSubstitutesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("X"), 0o644))

	out, err := Resolve(context.Background(), includeEl("a.txt"), dir)
	require.NoError(t, err)

	assert.Equal(t, node.Text("\n\nX\n"), out)
}

func TestResolveTrimsContent(t *testing.T) {
	src := &countingSource{files: map[string]string{"base/doc.md": "\n\n  # Doc\n\nbody  \n\n"}}
	r := NewResolver(Config{Source: src})

	out, err := r.Resolve(context.Background(), includeEl("doc.md"), "base")
	require.NoError(t, err)

	assert.Equal(t, node.Text("\n\n# Doc\n\nbody\n"), out)
}

func TestResolveMissingSourceDoesNoIO(t *testing.T) {
	src := &countingSource{files: map[string]string{}}
	r := NewResolver(Config{Source: src})

	_, err := r.Resolve(context.Background(), includeEl(""), "base")
	require.ErrorIs(t, err, ErrMissingIncludeSource)
	assert.Empty(t, src.reads)

	nonString := node.Primitive(node.IntrinsicInclude, noop, node.Props{"src": 42})
	_, err = r.Resolve(context.Background(), nonString, "base")
	require.ErrorIs(t, err, ErrMissingIncludeSource)
}

func TestResolveReadError(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(context.Background(), node.Seq{node.Text("a"), includeEl("missing.md")}, dir)
	require.Error(t, err)

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, filepath.Join(dir, "missing.md"), readErr.Path)
	assert.ErrorIs(t, err, ErrIncludeRead)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.md")
}

func TestResolvePassesScalarsThrough(t *testing.T) {
	for _, n := range []node.Node{nil, node.Bool(true), node.Text("t"), node.Number(1)} {
		out, err := Resolve(context.Background(), n, ".")
		require.NoError(t, err)
		assert.Equal(t, n, out)
	}
}

func TestResolveRecursesIntoChildrenOnly(t *testing.T) {
	src := &countingSource{files: map[string]string{"b/x.md": "included"}}
	r := NewResolver(Config{Source: src})

	// An include hidden in props is never looked at.
	tree := node.Tag("section", node.Props{"id": "s", "extra": includeEl("props.md")},
		node.Tag("p", nil, "before"),
		includeEl("x.md"),
	)

	out, err := r.Resolve(context.Background(), tree, "b")
	require.NoError(t, err)

	el, ok := out.(*node.Element)
	require.True(t, ok)
	assert.Equal(t, "section", el.Type.Tag)
	assert.Equal(t, "s", el.Props.String("id"))
	require.Len(t, el.Children, 2)
	assert.Equal(t, node.Text("\n\nincluded\n"), el.Children[1])
	assert.Equal(t, []string{"b/x.md"}, src.reads)

	// The input tree is left untouched.
	assert.True(t, node.IsElement(tree.Children[1]))
}

func TestResolvePreservesOrderRegardlessOfCompletion(t *testing.T) {
	files := map[string]string{}
	seq := node.Seq{}
	for i := 0; i < 20; i++ {
		name := string(rune('a'+i)) + ".md"
		files[filepath.Join("d", name)] = name
		seq = append(seq, includeEl(name))
	}
	src := &countingSource{
		files: files,
		// Earlier files finish last.
		delay: func(name string) time.Duration {
			return time.Duration('z'-filepath.Base(name)[0]) * time.Millisecond
		},
	}

	out, err := NewResolver(Config{Source: src}).Resolve(context.Background(), seq, "d")
	require.NoError(t, err)

	got := out.(node.Seq)
	require.Len(t, got, 20)
	for i, n := range got {
		want := "\n\n" + string(rune('a'+i)) + ".md\n"
		assert.Equal(t, node.Text(want), n, "position %d", i)
	}
}

func TestResolveFailFastDiscardsPartialResults(t *testing.T) {
	src := &countingSource{
		files: map[string]string{"d/slow.md": "slow"},
		delay: func(name string) time.Duration {
			if filepath.Base(name) == "slow.md" {
				return time.Second
			}
			return 0
		},
	}

	start := time.Now()
	out, err := NewResolver(Config{Source: src}).Resolve(context.Background(),
		node.Seq{includeEl("slow.md"), includeEl("missing.md")}, "d")

	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrIncludeRead)
	assert.Less(t, time.Since(start), 900*time.Millisecond, "sibling was not cancelled")
}

func TestResolveBoundsConcurrentReads(t *testing.T) {
	var inFlight, peak int32
	source := SourceFunc(func(ctx context.Context, name string) ([]byte, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return []byte(name), nil
	})

	seq := node.Seq{}
	for i := 0; i < 16; i++ {
		seq = append(seq, includeEl("f.md"))
	}

	var events int32
	r := NewResolver(Config{
		Source:             source,
		MaxConcurrentReads: 2,
		OnRead:             func(ReadEvent) { atomic.AddInt32(&events, 1) },
	})
	_, err := r.Resolve(context.Background(), seq, ".")
	require.NoError(t, err)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, int32(16), atomic.LoadInt32(&events))
}

func TestResolveHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, node.Tag("p", nil, includeEl("a.md")), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFSSource(t *testing.T) {
	fsys := fstest.MapFS{"docs/a.md": {Data: []byte(" A ")}}
	r := NewResolver(Config{Source: FSSource{FS: fsys}})

	out, err := r.Resolve(context.Background(), includeEl("a.md"), "/docs")
	require.NoError(t, err)
	assert.Equal(t, node.Text("\n\nA\n"), out)

	_, err = r.Resolve(context.Background(), includeEl("nope.md"), "docs")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
