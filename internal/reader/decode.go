package reader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncodings is the decode order for plain-text imports.
var DefaultEncodings = []string{"utf-8", "gbk", "gb18030", "big5"}

var (
	// ErrUnknownEncoding is returned when no candidate encoding decodes a file.
	ErrUnknownEncoding = errors.New("unable to detect text encoding")

	errUndecodable = errors.New("invalid byte sequence")
)

// Encoding is one candidate of the decode fallback chain.
type Encoding struct {
	Name   string
	decode func([]byte) (string, error)
}

// Decode converts data to a string or fails on any invalid byte sequence.
func (e Encoding) Decode(data []byte) (string, error) {
	return e.decode(data)
}

// Attempt is the outcome of trying one encoding.
type Attempt struct {
	Encoding string
	Err      error
}

// Decoded is the result of DecodeText.
type Decoded struct {
	Text     string
	Encoding string
	Attempts []Attempt
}

// LookupEncodings resolves WHATWG encoding labels such as "gbk" or "shift_jis".
func LookupEncodings(labels []string) ([]Encoding, error) {
	encs := make([]Encoding, 0, len(labels))
	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
		}
		name, err := htmlindex.Name(enc)
		if err != nil {
			name = label
		}
		if name == "utf-8" {
			encs = append(encs, Encoding{Name: name, decode: decodeUTF8})
			continue
		}
		encs = append(encs, Encoding{Name: name, decode: strictDecoder(enc)})
	}
	return encs, nil
}

// MustLookupEncodings is LookupEncodings for labels known to be valid.
func MustLookupEncodings(labels []string) []Encoding {
	encs, err := LookupEncodings(labels)
	if err != nil {
		panic(err)
	}
	return encs
}

// DecodeText tries each encoding in order and returns the first clean decode.
// Every attempt is recorded, including the failed ones.
func DecodeText(data []byte, encs []Encoding) (Decoded, error) {
	var res Decoded
	for _, enc := range encs {
		text, err := enc.Decode(data)
		res.Attempts = append(res.Attempts, Attempt{Encoding: enc.Name, Err: err})
		if err != nil {
			continue
		}
		res.Text = text
		res.Encoding = enc.Name
		return res, nil
	}
	return res, ErrUnknownEncoding
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errUndecodable
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// strictDecoder wraps a legacy decoder, which substitutes U+FFFD for invalid
// input, so that any substitution counts as a failure. A U+FFFD that the
// input really encodes survives the round trip back to the original bytes.
func strictDecoder(enc encoding.Encoding) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			back, err := enc.NewEncoder().Bytes(out)
			if err != nil || !bytes.Equal(back, data) {
				return "", errUndecodable
			}
		}
		return string(out), nil
	}
}
