package stylectx

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSelector is the rule selector used by CSSFile.
const DefaultSelector = ":root"

// CSSFile renders each flush as a stylesheet and replaces the file at
// Path atomically, so readers never observe a partial token set.
type CSSFile struct {
	staging

	path     string
	selector string
}

// NewCSSFile creates a sink writing to path. An empty selector means
// DefaultSelector.
func NewCSSFile(path, selector string) *CSSFile {
	if strings.TrimSpace(selector) == "" {
		selector = DefaultSelector
	}
	return &CSSFile{path: path, selector: selector}
}

// Path returns the stylesheet location.
func (c *CSSFile) Path() string {
	return c.path
}

func (c *CSSFile) SetProperty(name, value string) { c.setProperty(name, value) }

func (c *CSSFile) SetAttribute(name, value string) { c.setAttribute(name, value) }

func (c *CSSFile) SetClass(name string, on bool) { c.setClass(name, on) }

// Flush writes the staged state to disk.
func (c *CSSFile) Flush() error {
	if strings.TrimSpace(c.path) == "" {
		return fmt.Errorf("stylesheet path is required")
	}

	data := Render(c.selector, c.take())

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create stylesheet dir: %w", err)
	}
	if err := atomicWrite(c.path, []byte(data), dir); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}
	return nil
}

// Render formats a snapshot as one CSS rule. Attributes and classes cannot
// be expressed in a stylesheet, so they are recorded in the header comment;
// the data-mode attribute also sets color-scheme.
func Render(selector string, snap Snapshot) string {
	var b strings.Builder

	b.WriteString("/* generated by swatch")
	for _, name := range sortedKeys(snap.Attributes) {
		fmt.Fprintf(&b, " %s=%s", name, snap.Attributes[name])
	}
	if classes := snap.ActiveClasses(); len(classes) > 0 {
		fmt.Fprintf(&b, " class=%s", strings.Join(classes, ","))
	}
	b.WriteString(" */\n")

	fmt.Fprintf(&b, "%s {\n", selector)
	if mode := snap.Attributes["data-mode"]; mode != "" {
		fmt.Fprintf(&b, "  color-scheme: %s;\n", mode)
	}
	for _, name := range snap.PropertyNames() {
		fmt.Fprintf(&b, "  %s: %s;\n", name, snap.Properties[name])
	}
	b.WriteString("}\n")
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".swatch-*.css")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	success = true
	return nil
}
