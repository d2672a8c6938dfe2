package recognize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hyperifyio/sirenextract/internal/document"
)

// FileRecognizer serves precomputed entity spans from a local JSON file, for
// offline runs where an external tagger has already annotated the document.
// The file holds an array of objects: {"text": "...", "label": "..."}.
type FileRecognizer struct {
	Path string
}

// Recognize returns the spans from the file that occur in text. Spans are
// folded with document.Prepare first so annotations taken from the raw document still match
// prepared text. A missing or malformed file is reported as ErrUnavailable.
func (f *FileRecognizer) Recognize(_ context.Context, text string) ([]Entity, error) {
	if f == nil || strings.TrimSpace(f.Path) == "" {
		return nil, ErrUnavailable
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var raw []Entity
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnavailable, f.Path, err)
	}
	out := make([]Entity, 0, len(raw))
	for _, e := range raw {
		e.Text = document.Prepare(e.Text)
		if e.Text == "" || !strings.Contains(text, e.Text) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
