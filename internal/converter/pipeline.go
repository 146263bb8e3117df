package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuanying/epub2mdbook/internal/epub"
)

// summaryName is the reserved output file produced by the TOC renderer.
// A chapter whose mapped path collides with it is extracted under a
// disambiguated name instead of overwriting the table of contents.
const summaryName = "SUMMARY.md"

// ErrNotAFile indicates the input path does not reference a regular file.
var ErrNotAFile = errors.New("not a regular file")

// ConvertOptions holds options for the conversion pipeline.
type ConvertOptions struct {
	InputPath string // source EPUB file
	OutputDir string // output directory, working directory by default
	Flat      bool   // write into OutputDir itself instead of OutputDir/<book name>
	Logger    *slog.Logger
}

// Pipeline orchestrates the EPUB to mdBook conversion.
type Pipeline struct {
	Options ConvertOptions
	logger  *slog.Logger
}

// NewPipeline creates a new conversion pipeline.
func NewPipeline(opts ConvertOptions) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Options: opts, logger: logger}
}

// Convert executes the conversion: it opens the EPUB, renders the
// navigation tree into src/SUMMARY.md, converts every HTML-family resource
// to Markdown (copying everything else verbatim) and writes book.toml.
func (p *Pipeline) Convert() error {
	input := p.Options.InputPath
	info, err := os.Stat(input)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotAFile, input)
	}

	bookName := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	root := p.Options.OutputDir
	if root == "" {
		root = "."
	}
	if !p.Options.Flat {
		root = filepath.Join(root, bookName)
	}

	reader, opf, err := p.parseEPUB()
	if err != nil {
		return err
	}
	defer reader.Close()

	title := opf.Metadata.Title
	if title == "" {
		title = bookName
	}

	resourceMap := BuildResourceMap(opf.Resources)
	fileNames := BuildFileNameIndex(resourceMap)

	toc, err := epub.LoadTOC(reader, opf)
	if err != nil {
		return fmt.Errorf("failed to load table of contents: %w", err)
	}

	srcDir := filepath.Join(root, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	p.logger.Info("converting", "book", bookName, "title", title, "output", root)

	if err := p.extractResources(reader, opf, srcDir, resourceMap, fileNames); err != nil {
		return err
	}

	summary := RenderSummary(toc, title, resourceMap)
	if err := os.WriteFile(filepath.Join(srcDir, summaryName), []byte(summary), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", summaryName, err)
	}

	bookTOML := renderBookTOML(title, opf.Metadata.Creator())
	if err := os.WriteFile(filepath.Join(root, "book.toml"), []byte(bookTOML), 0o644); err != nil {
		return fmt.Errorf("failed to write book.toml: %w", err)
	}

	return nil
}

// parseEPUB opens the EPUB file and parses the package document.
func (p *Pipeline) parseEPUB() (*epub.Reader, *epub.OPF, error) {
	reader, err := epub.Open(p.Options.InputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open EPUB: %w", err)
	}

	opfData, err := reader.ReadFile(reader.OPFPath())
	if err != nil {
		reader.Close()
		return nil, nil, fmt.Errorf("failed to read OPF: %w", err)
	}

	opf, err := epub.ParseOPF(opfData, path.Dir(reader.OPFPath()))
	if err != nil {
		reader.Close()
		return nil, nil, fmt.Errorf("failed to parse OPF: %w", err)
	}

	return reader, opf, nil
}
