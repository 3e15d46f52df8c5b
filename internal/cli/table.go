package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const tablePadding = 2

// newTabWriter strips tabwriter.Escape bytes so escaped ANSI sequences take
// no column width.
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', tabwriter.StripEscape)
}

func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := newTabWriter(out)
	if len(headers) > 0 {
		fmt.Fprintln(writer, joinCells(headers))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, joinCells(row))
	}
	return writer.Flush()
}

// writeFields prints aligned "label: value" lines.
func writeFields(out io.Writer, fields [][2]string) error {
	writer := newTabWriter(out)
	for _, f := range fields {
		fmt.Fprintf(writer, "%s:\t%s\n", escapeANSI(f[0]), escapeANSI(f[1]))
	}
	return writer.Flush()
}

func joinCells(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = escapeANSI(c)
	}
	return strings.Join(escaped, "\t")
}

// escapeANSI wraps every CSI color sequence in tabwriter.Escape.
func escapeANSI(s string) string {
	if !strings.Contains(s, "\033[") {
		return s
	}
	var b strings.Builder
	for {
		start := strings.Index(s, "\033[")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.IndexByte(s[start:], 'm')
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		end += start + 1
		b.WriteString(s[:start])
		b.WriteByte(tabwriter.Escape)
		b.WriteString(s[start:end])
		b.WriteByte(tabwriter.Escape)
		s = s[end:]
	}
}

func formatPass(value bool) string {
	if value {
		return colorize("pass", colorGreen)
	}
	return colorize("fail", colorRed)
}
