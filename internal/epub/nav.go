package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TOC represents the book's navigation tree.
type TOC struct {
	Title   string
	Entries []NavPoint
}

// NavPoint represents a single entry in the table of contents.
type NavPoint struct {
	Label       string
	ContentPath string // fragment-free, absolute path within the archive
	Fragment    string // fragment identifier (without #)
	Children    []NavPoint
}

// LoadTOC loads the navigation tree, preferring the EPUB 2 NCX document
// over the EPUB 3 navigation document when both are declared.
// A book without either yields an empty tree, not an error.
func LoadTOC(r *Reader, opf *OPF) (*TOC, error) {
	if opf.NCXPath != "" {
		data, err := r.ReadFile(opf.NCXPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read NCX %s: %w", opf.NCXPath, err)
		}
		return parseNCX(data, path.Dir(opf.NCXPath))
	}

	if opf.NavPath != "" {
		data, err := r.ReadFile(opf.NavPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read navigation document %s: %w", opf.NavPath, err)
		}
		return parseNAV(data, path.Dir(opf.NavPath))
	}

	return &TOC{}, nil
}

// ncxDocument represents the NCX XML structure
type ncxDocument struct {
	XMLName  xml.Name `xml:"ncx"`
	DocTitle struct {
		Text string `xml:"text"`
	} `xml:"docTitle"`
	NavMap struct {
		NavPoints []ncxNavPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

// ncxNavPoint represents a navPoint element, nested recursively
type ncxNavPoint struct {
	NavLabel struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// parseNCX parses an NCX document. baseDir is the archive directory
// containing the NCX file; content srcs are resolved against it.
func parseNCX(content []byte, baseDir string) (*TOC, error) {
	var doc ncxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse NCX XML: %w", err)
	}

	toc := &TOC{
		Title:   strings.TrimSpace(doc.DocTitle.Text),
		Entries: convertNCXPoints(doc.NavMap.NavPoints, baseDir),
	}
	return toc, nil
}

// convertNCXPoints converts navPoint elements to NavPoints recursively
func convertNCXPoints(points []ncxNavPoint, baseDir string) []NavPoint {
	if len(points) == 0 {
		return nil
	}
	entries := make([]NavPoint, 0, len(points))
	for _, p := range points {
		src, fragment := splitFragment(strings.TrimSpace(p.Content.Src))
		entries = append(entries, NavPoint{
			Label:       strings.TrimSpace(p.NavLabel.Text),
			ContentPath: resolvePath(baseDir, src),
			Fragment:    fragment,
			Children:    convertNCXPoints(p.Children, baseDir),
		})
	}
	return entries
}

// parseNAV parses an EPUB 3 XHTML navigation document. It looks for the
// nav element marked epub:type="toc", falling back to the first nav.
func parseNAV(content []byte, baseDir string) (*TOC, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse navigation document: %w", err)
	}

	toc := &TOC{}

	var nav *goquery.Selection
	doc.Find("nav").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if typ, _ := s.Attr("epub:type"); typ == "toc" {
			nav = s
			return false
		}
		return true
	})
	if nav == nil {
		nav = doc.Find("nav").First()
	}
	if nav.Length() == 0 {
		return toc, nil
	}

	toc.Title = strings.TrimSpace(nav.ChildrenFiltered("h1, h2").First().Text())
	toc.Entries = parseNavList(nav.ChildrenFiltered("ol").First(), baseDir)
	return toc, nil
}

// parseNavList converts an ol element into NavPoints recursively.
// List items without a hyperlink carry no content reference and are skipped.
func parseNavList(list *goquery.Selection, baseDir string) []NavPoint {
	var entries []NavPoint
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		anchor := li.ChildrenFiltered("a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		src, fragment := splitFragment(strings.TrimSpace(href))
		entries = append(entries, NavPoint{
			Label:       strings.TrimSpace(anchor.Text()),
			ContentPath: resolvePath(baseDir, src),
			Fragment:    fragment,
			Children:    parseNavList(li.ChildrenFiltered("ol").First(), baseDir),
		})
	})
	return entries
}

// splitFragment splits a source path into the path and fragment identifier.
func splitFragment(src string) (path, fragment string) {
	if src == "" {
		return "", ""
	}
	parts := strings.SplitN(src, "#", 2)
	path = parts[0]
	if len(parts) == 2 {
		fragment = parts[1]
	}
	return path, fragment
}

// resolvePath resolves a relative href against a base archive directory,
// cleaning .. and . segments.
func resolvePath(baseDir, href string) string {
	if href == "" {
		return ""
	}
	if baseDir == "" || baseDir == "." {
		return path.Clean(href)
	}
	return path.Clean(path.Join(baseDir, href))
}
