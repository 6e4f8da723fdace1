package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tocsmith/tocsmith/internal/outline"
)

var (
	// ErrUnsupportedFormat reports a file extension no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoUnits reports a document that yielded neither text units nor
	// outline entries, such as a scanned PDF without embedded text.
	ErrNoUnits = errors.New("no extractable text")
)

// Document is a parsed source file.
type Document struct {
	// Name is the base filename without extension.
	Name string

	// Path is the source location, empty for in-memory documents.
	Path string

	// TotalPages counts pages for PDFs, source lines for markdown and
	// text blocks for HTML.
	TotalPages int

	// Units holds every text line in reading order.
	Units []outline.Unit

	// Outline holds authoritative entries recorded by the format itself.
	Outline []outline.Entry
}

// SupportedExtensions lists the file extensions Read accepts.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// IsSupported reports whether a filename has a readable extension.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Read loads and parses the document at path.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := FromBytes(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// FromBytes parses an in-memory document, picking the parser from the
// filename extension.
func FromBytes(filename string, data []byte) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	var (
		doc *Document
		err error
	)
	switch ext {
	case ".pdf":
		doc, err = readPDF(name, data)
	case ".md", ".markdown":
		doc, err = readMarkdown(name, data)
	case ".html", ".htm":
		doc, err = readHTML(name, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if len(doc.Units) == 0 && len(doc.Outline) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoUnits)
	}
	return doc, nil
}
