package epub

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// createTestEPUB creates an EPUB file containing a stored mimetype, the
// given container.xml and the given extra files.
func createTestEPUB(t *testing.T, containerXML string, files map[string]string) string {
	t.Helper()
	epubPath := filepath.Join(t.TempDir(), "test.epub")
	f, err := os.Create(epubPath)
	if err != nil {
		t.Fatalf("failed to create test epub: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	// mimetype (must be uncompressed/stored)
	mw, err := w.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		t.Fatalf("failed to create mimetype: %v", err)
	}
	mw.Write([]byte("application/epub+zip"))

	if containerXML != "" {
		cw, err := w.Create("META-INF/container.xml")
		if err != nil {
			t.Fatalf("failed to create container.xml: %v", err)
		}
		cw.Write([]byte(containerXML))
	}

	for path, content := range files {
		fw, err := w.Create(path)
		if err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
		fw.Write([]byte(content))
	}

	return epubPath
}

func TestOpen_Valid(t *testing.T) {
	epubPath := createTestEPUB(t, testContainerXML, map[string]string{
		"OEBPS/content.opf":    `<package/>`,
		"OEBPS/chapter1.xhtml": "<html><body><p>Hello</p></body></html>",
	})

	r, err := Open(epubPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.OPFPath() != "OEBPS/content.opf" {
		t.Errorf("OPFPath() = %q, want %q", r.OPFPath(), "OEBPS/content.opf")
	}

	content, err := r.ReadFile("OEBPS/chapter1.xhtml")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "Hello") {
		t.Errorf("ReadFile() content = %q, want it to contain %q", content, "Hello")
	}
}

func TestOpen_DotSlashPathNormalization(t *testing.T) {
	containerXML := strings.Replace(testContainerXML, `full-path="OEBPS/content.opf"`, `full-path="./OEBPS/content.opf"`, 1)
	epubPath := createTestEPUB(t, containerXML, map[string]string{
		"OEBPS/content.opf": `<package/>`,
	})

	r, err := Open(epubPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.OPFPath() != "OEBPS/content.opf" {
		t.Errorf("OPFPath() = %q, want %q", r.OPFPath(), "OEBPS/content.opf")
	}
}

func TestOpen_MissingMimetype(t *testing.T) {
	epubPath := filepath.Join(t.TempDir(), "test.epub")
	f, err := os.Create(epubPath)
	if err != nil {
		t.Fatalf("failed to create test epub: %v", err)
	}
	w := zip.NewWriter(f)
	cw, _ := w.Create("META-INF/container.xml")
	cw.Write([]byte(testContainerXML))
	w.Close()
	f.Close()

	if _, err := Open(epubPath); !errors.Is(err, ErrMimetypeNotFound) {
		t.Errorf("Open() error = %v, want %v", err, ErrMimetypeNotFound)
	}
}

func TestOpen_InvalidMimetype(t *testing.T) {
	epubPath := filepath.Join(t.TempDir(), "test.epub")
	f, err := os.Create(epubPath)
	if err != nil {
		t.Fatalf("failed to create test epub: %v", err)
	}
	w := zip.NewWriter(f)
	mw, _ := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	mw.Write([]byte("text/plain"))
	cw, _ := w.Create("META-INF/container.xml")
	cw.Write([]byte(testContainerXML))
	w.Close()
	f.Close()

	if _, err := Open(epubPath); !errors.Is(err, ErrInvalidMimetype) {
		t.Errorf("Open() error = %v, want %v", err, ErrInvalidMimetype)
	}
}

func TestOpen_CompressedMimetype(t *testing.T) {
	epubPath := filepath.Join(t.TempDir(), "test.epub")
	f, err := os.Create(epubPath)
	if err != nil {
		t.Fatalf("failed to create test epub: %v", err)
	}
	w := zip.NewWriter(f)
	// Create uses deflate, which is invalid for the mimetype entry
	mw, _ := w.Create("mimetype")
	mw.Write([]byte("application/epub+zip"))
	cw, _ := w.Create("META-INF/container.xml")
	cw.Write([]byte(testContainerXML))
	w.Close()
	f.Close()

	if _, err := Open(epubPath); !errors.Is(err, ErrMimetypeCompressed) {
		t.Errorf("Open() error = %v, want %v", err, ErrMimetypeCompressed)
	}
}

func TestOpen_MissingContainer(t *testing.T) {
	epubPath := createTestEPUB(t, "", map[string]string{
		"OEBPS/content.opf": `<package/>`,
	})

	if _, err := Open(epubPath); !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("Open() error = %v, want %v", err, ErrContainerNotFound)
	}
}

func TestOpen_NoRootfile(t *testing.T) {
	containerXML := `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles/>
</container>`
	epubPath := createTestEPUB(t, containerXML, nil)

	if _, err := Open(epubPath); !errors.Is(err, ErrOPFPathNotFound) {
		t.Errorf("Open() error = %v, want %v", err, ErrOPFPathNotFound)
	}
}

func TestOpen_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.epub")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Open() error = nil, want error for non-zip input")
	}
}

func TestReadFile_NotFound(t *testing.T) {
	epubPath := createTestEPUB(t, testContainerXML, map[string]string{
		"OEBPS/content.opf": `<package/>`,
	})

	r, err := Open(epubPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if _, err := r.ReadFile("OEBPS/missing.xhtml"); err == nil {
		t.Error("ReadFile() error = nil, want error for missing file")
	}
}
