package design

import (
	"strings"
	"unicode"
)

// ListSeparator joins array-valued tokens such as font stacks.
const ListSeparator = ", "

// Flatten walks the tree and records every leaf under its dot-joined path.
// List leaves are joined with ListSeparator; nothing else is special-cased.
func Flatten(root *Node) map[string]string {
	out := make(map[string]string)
	flattenInto(out, "", root)
	return out
}

func flattenInto(out map[string]string, prefix string, n *Node) {
	if n == nil {
		return
	}
	switch {
	case n.IsBranch():
		for key, child := range n.Children {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			flattenInto(out, path, child)
		}
	case n.IsList():
		out[prefix] = strings.Join(n.List, ListSeparator)
	default:
		out[prefix] = n.Value
	}
}

// Unflatten rebuilds the nesting from dot-joined paths. Every value becomes
// a scalar leaf, so it inverts Flatten for trees without list leaves.
func Unflatten(flat map[string]string) *Node {
	root := Branch()
	for path, value := range flat {
		cur := root
		segs := strings.Split(path, ".")
		for _, seg := range segs[:len(segs)-1] {
			next, ok := cur.Children[seg]
			if !ok || !next.IsBranch() {
				next = Branch()
				cur.Set(seg, next)
			}
			cur = next
		}
		cur.Set(segs[len(segs)-1], Leaf(value))
	}
	return root
}

// PropertyName converts a token path to a CSS custom property name:
// "color.primary.hover" -> "--color-primary-hover", "zIndex.modal" -> "--z-index-modal".
func PropertyName(path string) string {
	var b strings.Builder
	b.Grow(len(path) + 8)
	b.WriteString("--")
	for _, r := range path {
		switch {
		case r == '.':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
