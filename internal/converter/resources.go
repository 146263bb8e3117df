package converter

import (
	"path"
	"strings"

	"github.com/yuanying/epub2mdbook/internal/epub"
)

// isHTML checks whether a media type marks a resource for Markdown conversion
func isHTML(mediaType string) bool {
	return mediaType == "application/xhtml+xml" || mediaType == "text/html"
}

// BuildResourceMap maps every HTML-family resource path to its Markdown
// output path: same path, extension replaced by .md. Non-HTML resources
// are not included.
func BuildResourceMap(resources map[string]epub.Resource) map[string]string {
	m := make(map[string]string)
	for p, res := range resources {
		if !isHTML(res.MediaType) {
			continue
		}
		m[p] = replaceExt(p, ".md")
	}
	return m
}

// BuildFileNameIndex derives the basename rename table from the resource
// map. Converted chapters reference each other by file name only, so link
// rewriting matches on basenames.
func BuildFileNameIndex(resourceMap map[string]string) map[string]string {
	idx := make(map[string]string, len(resourceMap))
	for src, dst := range resourceMap {
		idx[path.Base(src)] = path.Base(dst)
	}
	return idx
}

// replaceExt swaps the extension of a slash-separated path
func replaceExt(p, ext string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ext
}
