package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/yuanying/epub2mdbook/internal/epub"
)

// ErrInvalidEncoding indicates an HTML-family resource that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8")

// extractResources writes every declared resource under srcDir: HTML-family
// resources are converted to Markdown with internal links rewritten, all
// others are copied byte for byte. Parent directories are created lazily.
func (p *Pipeline) extractResources(reader *epub.Reader, opf *epub.OPF, srcDir string, resourceMap, fileNames map[string]string) error {
	conv := md.NewConverter("", true, nil)

	for resPath := range opf.Resources {
		data, err := reader.ReadFile(resPath)
		if err != nil {
			// The manifest and the archive are expected to be consistent,
			// so a declared but unretrievable resource is skipped.
			p.logger.Warn("skipping unretrievable resource", "path", resPath, "error", err)
			continue
		}

		mdPath, ok := resourceMap[resPath]
		if !ok {
			if err := writeOutput(filepath.Join(srcDir, filepath.FromSlash(resPath)), data); err != nil {
				return err
			}
			continue
		}

		if mdPath == summaryName {
			mdPath = "_" + summaryName
		}

		if !utf8.Valid(data) {
			return fmt.Errorf("%w: %s", ErrInvalidEncoding, resPath)
		}

		markdown, err := conv.ConvertString(string(data))
		if err != nil {
			return fmt.Errorf("failed to convert %s: %w", resPath, err)
		}
		markdown = RewriteLinks(markdown, fileNames)

		if err := writeOutput(filepath.Join(srcDir, filepath.FromSlash(mdPath)), []byte(markdown)); err != nil {
			return err
		}
	}

	return nil
}

// writeOutput writes a file, creating parent directories as needed.
func writeOutput(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
