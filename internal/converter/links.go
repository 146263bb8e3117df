package converter

import (
	"path"
	"regexp"
	"strings"
)

var (
	// Markdown link with the fragment-free target in group 1 and the
	// optional fragment (including #) in group 2, e.g.
	// [ABC](abc.html#xxx) or [ABC](abc.html)
	linkPattern = regexp.MustCompile(`\[[^\]]+\]\(([^#)]+)(#[^)]*)?\)`)

	// Text link with an empty target, e.g. [ABC]()
	emptyLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(\)`)

	// URI scheme prefix, e.g. https: or mailto:
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// RewriteLinks retargets internal links in converted Markdown. A link whose
// target basename appears in the rename table gets that basename swapped
// for the Markdown one, keeping any directory prefix and fragment intact.
// Scheme-prefixed targets are external and left untouched. Degenerate empty
// links produced by malformed source markup are collapsed: ![]() and []()
// are removed, [label]() becomes the bare label.
func RewriteLinks(markdown string, fileNames map[string]string) string {
	out := linkPattern.ReplaceAllStringFunc(markdown, func(link string) string {
		loc := linkPattern.FindStringSubmatchIndex(link)
		start, end := loc[2], loc[3]
		target := link[start:end]

		if schemePattern.MatchString(target) {
			return link
		}

		base := path.Base(target)
		mapped, ok := fileNames[base]
		if !ok {
			return link
		}
		return link[:start] + target[:len(target)-len(base)] + mapped + link[end:]
	})

	out = strings.ReplaceAll(out, "![]()", "")
	out = strings.ReplaceAll(out, "[]()", "")
	return emptyLinkPattern.ReplaceAllString(out, "$1")
}
