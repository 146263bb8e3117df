package converter

import (
	"fmt"
	"strings"
)

// renderBookTOML produces the minimal mdBook configuration: a [book]
// section with the title and, when the source declared one, the author.
func renderBookTOML(title, author string) string {
	var b strings.Builder
	b.WriteString("[book]\n")
	fmt.Fprintf(&b, "title = %s\n", tomlString(title))
	if author != "" {
		fmt.Fprintf(&b, "author = %s\n", tomlString(author))
	}
	return b.String()
}

// tomlString renders a TOML basic string: double-quoted, with backslash,
// quote and control characters escaped.
func tomlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
