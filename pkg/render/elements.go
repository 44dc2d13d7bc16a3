package render

import (
	"strings"

	"github.com/vango-dev/wingman/pkg/node"
)

// headingLevels maps heading tags to their markdown prefix.
var headingLevels = map[string]string{
	"h1": "#",
	"h2": "##",
	"h3": "###",
	"h4": "####",
	"h5": "#####",
	"h6": "######",
}

// listMarkers maps list tags to their item marker.
var listMarkers = map[string]string{
	"ul": "-",
	"ol": "1.",
}

// IsKnownTag reports whether tag has a markdown production. Other tags pass
// their content through unchanged.
func IsKnownTag(tag string) bool {
	if _, ok := headingLevels[tag]; ok {
		return true
	}
	if _, ok := listMarkers[tag]; ok {
		return true
	}
	switch tag {
	case "p", "strong", "b", "em", "i", "code", "pre", "blockquote", "hr", "br", "a", "li":
		return true
	}
	return false
}

// renderTag wraps already-rendered child content in the tag's production.
func (p *pass) renderTag(el *node.Element, content string) (string, error) {
	tag := el.Type.Tag

	if prefix, ok := headingLevels[tag]; ok {
		return prefix + " " + content + "\n\n", nil
	}
	switch tag {
	case "p":
		return content + "\n\n", nil
	case "strong", "b":
		return "**" + content + "**", nil
	case "em", "i":
		return "*" + content + "*", nil
	case "code":
		return "`" + content + "`", nil
	case "pre":
		return "```\n" + content + "\n```\n\n", nil
	case "blockquote":
		lines := strings.Split(content, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n") + "\n\n", nil
	case "hr":
		return "---\n\n", nil
	case "br":
		return "\n", nil
	case "a", "li":
		return content, nil
	default:
		return content, nil
	}
}

// renderList renders the li children of a list, one item per line. Other
// children, typically whitespace between items, are skipped.
func (p *pass) renderList(children []node.Node, marker string) (string, error) {
	items := make([]string, 0, len(children))
	for _, child := range children {
		li, ok := child.(*node.Element)
		if !ok || li == nil || li.Type.IsComponent() || li.Type.Tag != "li" {
			continue
		}
		content, err := p.renderSeq(li.Children)
		if err != nil {
			return "", err
		}
		items = append(items, marker+" "+content)
	}
	return strings.Join(items, "\n") + "\n\n", nil
}
