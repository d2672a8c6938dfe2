// Package recognize abstracts the named-entity recognizer used to propose
// registration codes that the digit patterns alone would miss.
package recognize

import (
	"context"
	"errors"
)

// DefaultLabel is the entity label carried by registration-code spans.
const DefaultLabel = "SIREN"

// ErrUnavailable signals that a recognizer could not be loaded or reached.
// Callers treat it as "no recognizer" rather than as a failure.
var ErrUnavailable = errors.New("recognizer unavailable")

// Entity is a labelled span of the input text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Recognizer returns the entity spans found in text.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// Func adapts a plain function to the Recognizer interface.
type Func func(ctx context.Context, text string) ([]Entity, error)

func (f Func) Recognize(ctx context.Context, text string) ([]Entity, error) {
	return f(ctx, text)
}

// WithLabel returns the span texts of entities whose label equals label
// exactly, in recognizer order.
func WithLabel(entities []Entity, label string) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		if e.Label == label {
			out = append(out, e.Text)
		}
	}
	return out
}
