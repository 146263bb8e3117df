package converter

import (
	"fmt"
	"strings"

	"github.com/yuanying/epub2mdbook/internal/epub"
)

// RenderSummary renders the navigation tree as mdBook SUMMARY.md content:
// a top-level title heading followed by a nested bullet list, indented two
// spaces per tree depth.
func RenderSummary(toc *epub.TOC, title string, resourceMap map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if toc == nil {
		return b.String()
	}
	for _, entry := range toc.Entries {
		writeSummaryEntry(&b, entry, 0, resourceMap)
	}
	return b.String()
}

// writeSummaryEntry writes one entry and recurses into its children.
// An entry whose content path does not resolve through the resource map is
// dropped together with its entire subtree.
func writeSummaryEntry(b *strings.Builder, entry epub.NavPoint, depth int, resourceMap map[string]string) {
	target, ok := resourceMap[entry.ContentPath]
	if !ok {
		return
	}
	if entry.Fragment != "" {
		target += "#" + entry.Fragment
	}
	fmt.Fprintf(b, "%s- [%s](%s)\n", strings.Repeat("  ", depth), entry.Label, target)
	for _, child := range entry.Children {
		writeSummaryEntry(b, child, depth+1, resourceMap)
	}
}
