// Package components provides the built-in Wingman components.
//
// Each constructor returns a *node.Element ready to be placed in a tree:
//
//	tree := node.Fragment(
//	    el.H1("Project"),
//	    components.Include("docs/conventions.md"),
//	    components.Skill(components.SkillProps{
//	        Name:        "release",
//	        Description: "Cut a release",
//	    }, el.P("Run make release.")),
//	)
//
// OutputFile and Include are intrinsics the renderer and include resolver
// recognise. The rest are ordinary components built on top of them; the
// ones whose layout depends on the target agent read the active
// composition context with composition.Use.
package components
