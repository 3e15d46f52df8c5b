package design

import (
	"encoding/json"
	"sort"
	"strings"
)

// Node is one level of the token tree. Exactly one of Value, List or
// Children is meaningful: leaves carry Value (or List for font stacks),
// branches carry Children.
type Node struct {
	Value    string
	List     []string
	Children map[string]*Node
}

// Leaf returns a scalar node.
func Leaf(value string) *Node {
	return &Node{Value: value}
}

// ListLeaf returns an array-valued node.
func ListLeaf(values []string) *Node {
	return &Node{List: append([]string{}, values...)}
}

// Branch returns an empty interior node.
func Branch() *Node {
	return &Node{Children: map[string]*Node{}}
}

// IsBranch reports whether n has children.
func (n *Node) IsBranch() bool {
	return n != nil && n.Children != nil
}

// IsList reports whether n is an array-valued leaf.
func (n *Node) IsList() bool {
	return n != nil && n.Children == nil && n.List != nil
}

// Set attaches child under key and returns n for chaining.
func (n *Node) Set(key string, child *Node) *Node {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	n.Children[key] = child
	return n
}

// Keys returns the child keys sorted.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.Children))
	for key := range n.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes branches as objects, list leaves as arrays and
// scalar leaves as strings.
func (n *Node) MarshalJSON() ([]byte, error) {
	switch {
	case n == nil:
		return []byte("null"), nil
	case n.IsBranch():
		return json.Marshal(n.Children)
	case n.IsList():
		return json.Marshal(n.List)
	default:
		return json.Marshal(n.Value)
	}
}

// Lookup walks a dot-separated path. It returns nil when any segment is missing.
func (n *Node) Lookup(path string) *Node {
	if path == "" {
		return n
	}
	cur := n
	for _, seg := range strings.Split(path, ".") {
		if !cur.IsBranch() {
			return nil
		}
		next, ok := cur.Children[seg]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Tree renders the token set as a nested tree. The key names here are the
// canonical token paths: "color.primary.hover", "typography.fontSize.lg".
func (t Tokens) Tree() *Node {
	return Branch().
		Set("color", t.Color.tree()).
		Set("typography", t.Typography.tree()).
		Set("spacing", t.Spacing.tree()).
		Set("shadows", t.Shadows.tree()).
		Set("borders", Branch().
			Set("width", t.Borders.Width.tree()).
			Set("radius", t.Borders.Radius.tree())).
		Set("transitions", Branch().
			Set("duration", t.Transitions.Duration.tree()).
			Set("easing", t.Transitions.Easing.tree())).
		Set("breakpoints", t.Breakpoints.tree()).
		Set("zIndex", t.ZIndex.tree())
}

func (c ColorSystem) tree() *Node {
	n := Branch()
	for _, named := range c.Semantic() {
		n.Set(named.Name, named.Color.tree())
	}
	neutral := Branch()
	for i, step := range NeutralSteps {
		neutral.Set(step, Leaf(c.Neutral[i]))
	}
	n.Set("neutral", neutral)
	n.Set("light", c.Light.tree())
	n.Set("dark", c.Dark.tree())
	return n
}

func (c ThemeAwareColor) tree() *Node {
	return Branch().
		Set("base", Leaf(c.Base)).
		Set("foreground", Leaf(c.Foreground)).
		Set("hover", Leaf(c.Hover)).
		Set("pressed", Leaf(c.Pressed)).
		Set("focus", Leaf(c.Focus)).
		Set("opacity10", Leaf(c.Opacity10)).
		Set("opacity20", Leaf(c.Opacity20)).
		Set("opacity30", Leaf(c.Opacity30)).
		Set("opacity50", Leaf(c.Opacity50)).
		Set("opacity70", Leaf(c.Opacity70)).
		Set("subtle", Leaf(c.Subtle)).
		Set("muted", Leaf(c.Muted)).
		Set("emphasis", Leaf(c.Emphasis))
}

func (m ModeColors) tree() *Node {
	return Branch().
		Set("background", Leaf(m.Background)).
		Set("foreground", Leaf(m.Foreground)).
		Set("surface", Branch().
			Set("primary", Leaf(m.Surface.Primary)).
			Set("secondary", Leaf(m.Surface.Secondary)).
			Set("tertiary", Leaf(m.Surface.Tertiary)).
			Set("elevated", Leaf(m.Surface.Elevated)).
			Set("overlay", Leaf(m.Surface.Overlay))).
		Set("text", Branch().
			Set("primary", Leaf(m.Text.Primary)).
			Set("secondary", Leaf(m.Text.Secondary)).
			Set("tertiary", Leaf(m.Text.Tertiary)).
			Set("inverse", Leaf(m.Text.Inverse)).
			Set("disabled", Leaf(m.Text.Disabled)).
			Set("placeholder", Leaf(m.Text.Placeholder))).
		Set("border", Branch().
			Set("default", Leaf(m.Border.Default)).
			Set("subtle", Leaf(m.Border.Subtle)).
			Set("strong", Leaf(m.Border.Strong)).
			Set("focus", Leaf(m.Border.Focus)))
}

func (t Typography) tree() *Node {
	return Branch().
		Set("fontFamily", Branch().
			Set("sans", ListLeaf(t.FontFamily.Sans)).
			Set("serif", ListLeaf(t.FontFamily.Serif)).
			Set("mono", ListLeaf(t.FontFamily.Mono))).
		Set("fontSize", t.FontSize.tree()).
		Set("fontWeight", t.FontWeight.tree()).
		Set("lineHeight", t.LineHeight.tree()).
		Set("letterSpacing", t.LetterSpacing.tree())
}

func (s Scale) tree() *Node {
	n := Branch()
	for _, step := range s {
		n.Set(step.Key, Leaf(step.Value))
	}
	return n
}
