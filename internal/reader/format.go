package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format defines a file format reader for extracting text.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (string, error)
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Document is text extracted for import.
type Document struct {
	Text     string
	Format   string
	Encoding string
}

// Extractor turns files into line-oriented text. Files without a registered
// format are read as plain text and decoded through Encodings in order.
type Extractor struct {
	Encodings []Encoding
}

// NewExtractor returns an Extractor using DefaultEncodings.
func NewExtractor() *Extractor {
	return &Extractor{Encodings: MustLookupEncodings(DefaultEncodings)}
}

// Extract reads filename and returns its text with LF line endings.
func (x *Extractor) Extract(filename string) (Document, error) {
	if f := formatFor(filename); f != nil {
		text, err := f.Extract(filename)
		if err != nil {
			return Document{}, err
		}
		return Document{Text: NormalizeNewlines(text), Format: f.Name(), Encoding: "utf-8"}, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return Document{}, err
	}
	dec, err := DecodeText(data, x.Encodings)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", filename, err)
	}
	return Document{Text: NormalizeNewlines(dec.Text), Format: "Text", Encoding: dec.Encoding}, nil
}

func formatFor(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
