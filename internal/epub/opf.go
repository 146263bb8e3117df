package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// opfPackage represents the OPF XML structure
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata represents the metadata section
type opfMetadata struct {
	Title    []string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator  []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Language []string `xml:"http://purl.org/dc/elements/1.1/ language"`
}

// opfManifest represents the manifest section
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents an item in the manifest
type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// opfSpine represents the spine section
type opfSpine struct {
	Toc string `xml:"toc,attr"`
}

// ParseOPF parses a package document and returns the resource table,
// metadata and navigation document locations.
// opfDir is the directory containing the OPF file (e.g., "OEBPS")
func ParseOPF(content []byte, opfDir string) (*OPF, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse OPF XML: %w", err)
	}

	opf := &OPF{
		Resources: make(map[string]Resource),
	}

	if len(pkg.Metadata.Title) > 0 {
		opf.Metadata.Title = strings.TrimSpace(pkg.Metadata.Title[0])
	}
	if len(pkg.Metadata.Language) > 0 {
		opf.Metadata.Language = pkg.Metadata.Language[0]
	}
	for _, creator := range pkg.Metadata.Creator {
		if creator = strings.TrimSpace(creator); creator != "" {
			opf.Metadata.Creators = append(opf.Metadata.Creators, creator)
		}
	}

	// Manifest items become the resource table, keyed by archive path.
	// IDs are kept only to resolve the spine toc attribute.
	byID := make(map[string]Resource, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		res := Resource{
			ID:        item.ID,
			Path:      joinPath(opfDir, item.Href),
			MediaType: item.MediaType,
		}
		opf.Resources[res.Path] = res
		byID[res.ID] = res

		// EPUB 3 marks the navigation document with a "nav" property
		for _, prop := range strings.Fields(item.Properties) {
			if prop == "nav" {
				opf.NavPath = res.Path
			}
		}
	}

	if pkg.Spine.Toc != "" {
		if ncx, ok := byID[pkg.Spine.Toc]; ok {
			opf.NCXPath = ncx.Path
		}
	}

	return opf, nil
}

// joinPath joins a manifest href to the OPF directory, slash-normalized.
func joinPath(dir, href string) string {
	if dir == "" || dir == "." {
		return path.Clean(href)
	}
	return path.Clean(path.Join(dir, href))
}
