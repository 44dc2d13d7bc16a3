// Package composition holds the context a render pass runs under.
//
// A Context names the target agent, the directory output is written to, the
// platform, and any extension options passed on the command line. Exactly one
// context is current while a render pass runs. Components read it through
// Use:
//
//	func (s Skill) Render(children []node.Node) (node.Node, error) {
//	    ctx, err := composition.Use()
//	    if err != nil {
//	        return nil, err
//	    }
//	    ...
//	}
//
// The Store is a single slot. Enter holds the store's pass lock for the whole
// pass, so two renders against the same store run one after the other rather
// than racing on the slot.
package composition
