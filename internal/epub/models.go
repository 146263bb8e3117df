package epub

// Resource is a single file declared in the package manifest.
type Resource struct {
	ID        string
	Path      string // archive path, slash-normalized
	MediaType string
}

// Metadata represents the package metadata this converter consumes
type Metadata struct {
	Title    string
	Creators []string
	Language string
}

// OPF represents the parsed Open Package Format document
type OPF struct {
	Metadata  Metadata
	Resources map[string]Resource // archive path -> resource
	NCXPath   string              // EPUB 2 NCX document, resolved from the spine toc attribute
	NavPath   string              // EPUB 3 navigation document (properties="nav")
}

// Creator returns the first declared creator, or "" if none.
func (m *Metadata) Creator() string {
	if len(m.Creators) == 0 {
		return ""
	}
	return m.Creators[0]
}
