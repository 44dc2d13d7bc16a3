package components

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/wingman/pkg/node"
)

// Field is one frontmatter entry.
type Field struct {
	Key   string
	Value any
}

// Data is ordered frontmatter. Keys are written in slice order.
type Data []Field

// Set returns d with key set to value, replacing an existing entry in place.
func (d Data) Set(key string, value any) Data {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = value
			return d
		}
	}
	return append(d, Field{Key: key, Value: value})
}

// Frontmatter renders data as a YAML frontmatter block.
func Frontmatter(data Data) *node.Element {
	return node.Comp(frontmatter{data: data}, nil)
}

type frontmatter struct {
	data Data
}

func (c frontmatter) Render([]node.Node) (node.Node, error) {
	return node.Text(FormatFrontmatter(c.data)), nil
}

// FormatFrontmatter writes data between --- fences. Nil values are skipped.
// Strings containing a colon, a hash or a newline are double quoted. Nested
// maps become an indented block of quoted values; Data keeps its order, other
// maps are sorted by key.
func FormatFrontmatter(data Data) string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range data {
		if isNil(f.Value) {
			continue
		}
		writeField(&b, f.Key, f.Value)
	}
	b.WriteString("---\n")
	return b.String()
}

func writeField(b *strings.Builder, key string, value any) {
	switch v := value.(type) {
	case string:
		fmt.Fprintf(b, "%s: %s\n", key, scalar(v))
	case Data:
		fmt.Fprintf(b, "%s:\n", key)
		for _, f := range v {
			fmt.Fprintf(b, "  %s: \"%v\"\n", f.Key, f.Value)
		}
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Map:
			fmt.Fprintf(b, "%s:\n", key)
			keys := rv.MapKeys()
			sort.Slice(keys, func(i, j int) bool {
				return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
			})
			for _, k := range keys {
				fmt.Fprintf(b, "  %v: \"%v\"\n", k.Interface(), rv.MapIndex(k).Interface())
			}
		case reflect.Slice, reflect.Array:
			items := make([]string, rv.Len())
			for i := range items {
				item := rv.Index(i).Interface()
				if s, ok := item.(string); ok {
					items[i] = scalar(s)
				} else {
					items[i] = fmt.Sprint(item)
				}
			}
			fmt.Fprintf(b, "%s: [%s]\n", key, strings.Join(items, ", "))
		default:
			fmt.Fprintf(b, "%s: %v\n", key, value)
		}
	}
}

func scalar(s string) string {
	if strings.ContainsAny(s, ":#\n") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
