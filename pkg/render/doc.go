// Package render turns a node tree into a markdown document.
//
// A render pass is a single synchronous walk. Markdown tags map to fixed
// productions (headings, paragraphs, emphasis, code, quotes, rules and
// lists); unknown tags pass their content through unwrapped. Components are
// invoked once each with their children.
//
// OutputFile elements never contribute to the main document. Their rendered
// content is diverted into Result.Metadata.OutputFiles, which is how a single
// tree produces several artifacts:
//
//	res, err := render.Render(tree, composition.New(composition.WithAgent("claude")))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Content)
//	for _, f := range res.Metadata.OutputFiles {
//	    fmt.Println(f.Path)
//	}
//
// Include elements must be resolved before rendering; see package include.
// The renderer has no suspension points and treats a leftover Include as a
// component like any other.
//
// # Context
//
// Render installs the composition context into a composition.Store for the
// duration of the pass and always clears it again, including when a
// component returns an error or panics. Passes against the same store are
// serialized.
package render
