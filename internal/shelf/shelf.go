// Package shelf persists imported books and their reading progress in a
// single JSON document.
package shelf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	"github.com/metcalfc/moyu/internal/reader"
)

const (
	// FileName is the default name of the shelf document.
	FileName = "bookshelf.json"

	// TimeLayout is the format of Book.LastRead.
	TimeLayout = "2006-01-02 15:04:05"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidIndex = errors.New("invalid book index")
	ErrNotFound     = errors.New("book not found on shelf")
	ErrInvalidInput = errors.New("invalid input")
	ErrCorruptShelf = errors.New("shelf file is corrupt")
)

// Book is one imported text and its reading state.
type Book struct {
	Content    string `json:"content"`
	Progress   int    `json:"progress"`
	TotalLines int    `json:"total_lines"`
	LastRead   string `json:"last_read"`
}

// Entry is a Book as shown in the shelf listing.
type Entry struct {
	Name       string
	Progress   int
	TotalLines int
	LastRead   string
}

// Store is the shelf, kept in memory in insertion order and written through
// to disk on every change.
type Store struct {
	path      string
	books     *orderedmap.OrderedMap[string, Book]
	extractor *reader.Extractor
	now       func() time.Time
	log       *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for LastRead.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithExtractor sets the text extractor used by Import.
func WithExtractor(x *reader.Extractor) Option {
	return func(s *Store) { s.extractor = x }
}

// Open loads the shelf at path. A missing file is an empty shelf; a file
// that cannot be decoded yields ErrCorruptShelf.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:  path,
		books: orderedmap.New[string, Book](),
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.extractor == nil {
		s.extractor = reader.NewExtractor()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create shelf dir: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	s.log.Info("shelf loaded", zap.String("path", path), zap.Int("books", s.books.Len()))
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of books.
func (s *Store) Len() int {
	return s.books.Len()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read shelf: %w", err)
	}

	books := orderedmap.New[string, Book]()
	if err := json.Unmarshal(bytes.TrimSpace(data), books); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptShelf, s.path, err)
	}
	s.books = books
	return nil
}

// Save writes the whole shelf. The document is written to a temporary file
// in the same directory and renamed over the old one.
func (s *Store) Save() error {
	data, err := s.marshal()
	if err != nil {
		return fmt.Errorf("marshal shelf: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".bookshelf-*.json")
	if err != nil {
		return fmt.Errorf("create temp shelf: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write shelf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write shelf: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace shelf: %w", err)
	}
	s.log.Debug("shelf saved", zap.Int("books", s.books.Len()), zap.Int("bytes", len(data)))
	return nil
}

// marshal encodes the shelf pair by pair in listing order, leaving <, > and
// & literal in names and content.
func (s *Store) marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for pair := s.books.Oldest(); pair != nil; pair = pair.Next() {
		if pair != s.books.Oldest() {
			buf.WriteByte(',')
		}
		if err := enc.Encode(pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(pair.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Import adds the file at path to the shelf under its base name, replacing
// any book of the same name, and saves. The shelf is unchanged on error.
func (s *Store) Import(path string) (string, error) {
	path = NormalizePath(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrFileNotFound)
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	doc, err := s.extractor.Extract(path)
	if err != nil {
		s.log.Warn("import failed", zap.String("path", path), zap.Error(err))
		return "", err
	}

	name := filepath.Base(path)
	prev, existed := s.books.Get(name)
	s.books.Set(name, Book{
		Content:    doc.Text,
		Progress:   0,
		TotalLines: reader.CountLines(doc.Text),
		LastRead:   s.stamp(),
	})
	if err := s.Save(); err != nil {
		if existed {
			s.books.Set(name, prev)
		} else {
			s.books.Delete(name)
		}
		return "", err
	}

	s.log.Info("book imported",
		zap.String("name", name),
		zap.String("format", doc.Format),
		zap.String("encoding", doc.Encoding),
		zap.Bool("replaced", existed))
	return name, nil
}

// Book returns the named book.
func (s *Store) Book(name string) (Book, bool) {
	return s.books.Get(name)
}

// SetProgress records line as the reading position of name, clamped to
// the book, stamps LastRead and saves.
func (s *Store) SetProgress(name string, line int) error {
	book, ok := s.books.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if line < 0 {
		line = 0
	}
	if line > book.TotalLines {
		line = book.TotalLines
	}
	book.Progress = line
	book.LastRead = s.stamp()
	s.books.Set(name, book)
	return s.Save()
}

// List returns the books in insertion order.
func (s *Store) List() []Entry {
	entries := make([]Entry, 0, s.books.Len())
	for pair := s.books.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry{
			Name:       pair.Key,
			Progress:   pair.Value.Progress,
			TotalLines: pair.Value.TotalLines,
			LastRead:   pair.Value.LastRead,
		})
	}
	return entries
}

// Resolve maps a listing number (1-based) or an exact book name to a name.
// Identifiers made only of ASCII digits, ignoring surrounding space, are
// always treated as numbers. Names match as typed first, then trimmed.
func (s *Store) Resolve(identifier string) (string, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return "", ErrInvalidInput
	}
	if isDigits(id) {
		idx, err := strconv.Atoi(id)
		if err != nil || idx < 1 || idx > s.books.Len() {
			return "", fmt.Errorf("%w: %s", ErrInvalidIndex, id)
		}
		pair := s.books.Oldest()
		for i := 1; i < idx; i++ {
			pair = pair.Next()
		}
		return pair.Key, nil
	}
	if _, ok := s.books.Get(identifier); ok {
		return identifier, nil
	}
	if _, ok := s.books.Get(id); ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, identifier)
}

func (s *Store) stamp() string {
	return s.now().Format(TimeLayout)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizePath trims whitespace and surrounding quotes from a pasted path,
// expands a leading "~" and cleans the result.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"'`)
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return filepath.Clean(filepath.FromSlash(p))
}
