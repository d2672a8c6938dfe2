// Package document turns uploaded bytes into the text the extractor scans:
// strict UTF-8 decoding, optional HTML-to-text, and folding of full-width
// digits and no-break spaces.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// ErrDecoding is matched by errors.Is for every DecodingError.
var ErrDecoding = errors.New("input is not valid UTF-8")

// DecodingError reports the byte offset of the first invalid UTF-8 sequence.
type DecodingError struct {
	Offset int
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode input: invalid UTF-8 at byte %d", e.Offset)
}

func (e *DecodingError) Is(target error) bool { return target == ErrDecoding }

// Format is the declared or sniffed input format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// ParseFormat accepts "", "auto", "text"/"txt" and "html"/"htm".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text", "txt":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown input format %q", s)
	}
}

// Decode returns b as a string, or a *DecodingError when b is not valid
// UTF-8. A leading byte-order mark is dropped.
func Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", &DecodingError{Offset: firstInvalid(b)}
	}
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	return string(b), nil
}

// Load decodes b, converts HTML to readable text when format asks for it (or
// when auto-detection sees markup), and folds the result with Prepare so that
// no-break spaces and full-width digits scan like their ASCII forms.
func Load(b []byte, format Format) (string, error) {
	text, err := Decode(b)
	if err != nil {
		return "", err
	}
	if format == FormatHTML || (format == FormatAuto && looksLikeHTML(text)) {
		text = FromHTML([]byte(text))
	}
	return Prepare(text), nil
}

// spaceFolder maps the no-break spaces French typography puts inside
// numbers to a plain space.
var spaceFolder = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2007", " ")

// Prepare folds full-width forms to ASCII and no-break spaces to a plain
// space. Other compatibility forms such as superscripts are kept, so they
// never turn into digits.
func Prepare(text string) string {
	return spaceFolder.Replace(width.Narrow.String(text))
}

// Preview returns the first max characters of text, with "..." appended when
// it was cut.
func Preview(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i] + "..."
		}
		n++
	}
	return text
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

func looksLikeHTML(text string) bool {
	head := text
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = strings.ToLower(strings.TrimSpace(head))
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.Contains(head, "<html") ||
		strings.Contains(head, "<body")
}
