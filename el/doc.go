// Package el provides the markdown element DSL for Wingman.
//
// It re-exports tag constructors for every element the renderer knows, the
// node helpers, and the built-in components, so a composition reads as one
// vocabulary:
//
//	import . "github.com/vango-dev/wingman/el"
//
//	func Root() Node {
//	    return Fragment(
//	        H1("Contributing"),
//	        P("Run ", Code("make test"), " before pushing."),
//	        Ul(Li("Small commits"), Li("Descriptive messages")),
//	        Skill(SkillProps{Name: "release", Description: "Cut a release"},
//	            P("Tag, then publish.")),
//	    )
//	}
package el
