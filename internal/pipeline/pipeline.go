// Package pipeline composes candidate location and checksum validation into a
// single extraction over one document.
package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/sirenextract/internal/locate"
	"github.com/hyperifyio/sirenextract/internal/recognize"
	"github.com/hyperifyio/sirenextract/internal/siren"
)

// Config selects the optional candidate sources.
type Config struct {
	UseEntityRecognizer bool
	UseSeparatedPattern bool
}

// DefaultConfig enables the recognizer only when one is available and always
// enables the separated pattern.
func DefaultConfig(recognizerAvailable bool) Config {
	return Config{UseEntityRecognizer: recognizerAvailable, UseSeparatedPattern: true}
}

// Result is a normalized code tagged with its checksum outcome.
type Result struct {
	Code  string
	Valid bool
}

// Report is the outcome of one extraction. Valid and Invalid are disjoint,
// duplicate-free, and ordered by first occurrence.
type Report struct {
	Valid   []string
	Invalid []string
	// Candidates counts raw proposals before normalization and de-duplication.
	Candidates int
}

// Results returns every code of the report in first-seen order of each
// partition: valid codes first, then invalid ones.
func (r Report) Results() []Result {
	out := make([]Result, 0, len(r.Valid)+len(r.Invalid))
	for _, c := range r.Valid {
		out = append(out, Result{Code: c, Valid: true})
	}
	for _, c := range r.Invalid {
		out = append(out, Result{Code: c, Valid: false})
	}
	return out
}

// Pipeline holds the optional recognizer collaborator.
type Pipeline struct {
	Recognizer recognize.Recognizer
	// Label is the recognizer label treated as a registration code.
	Label string
}

// Extract runs the configured sources over text, normalizes and
// de-duplicates the candidates, and partitions them by checksum. It never
// fails: a missing or failing recognizer degrades to the pattern sources.
func (p *Pipeline) Extract(ctx context.Context, text string, cfg Config) Report {
	opts := locate.Options{Separated: cfg.UseSeparatedPattern, Label: p.label()}
	if cfg.UseEntityRecognizer && p.Recognizer != nil {
		opts.Recognizer = p.Recognizer
	}
	candidates := locate.New(opts).Locate(ctx, text)

	report := Report{Valid: []string{}, Invalid: []string{}, Candidates: len(candidates)}
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		code := siren.Normalize(c.Text)
		if len(code) != siren.Length {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		if siren.Validate(code) {
			report.Valid = append(report.Valid, code)
		} else {
			report.Invalid = append(report.Invalid, code)
		}
	}
	log.Debug().Str("stage", "pipeline").Int("candidates", report.Candidates).Int("valid", len(report.Valid)).Int("invalid", len(report.Invalid)).Msg("extraction done")
	return report
}

func (p *Pipeline) label() string {
	if p == nil || p.Label == "" {
		return recognize.DefaultLabel
	}
	return p.Label
}

// Extract runs a pipeline without a recognizer.
func Extract(ctx context.Context, text string, cfg Config) Report {
	return (&Pipeline{}).Extract(ctx, text, cfg)
}
