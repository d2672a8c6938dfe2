// Package locate proposes registration-code candidates from free text. It does
// no normalization or validation; see package siren for that.
package locate

import (
	"context"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/sirenextract/internal/recognize"
)

// Source identifies which scan produced a candidate.
type Source int

const (
	SourceRecognizer Source = iota
	SourcePlain
	SourceSeparated
)

func (s Source) String() string {
	switch s {
	case SourceRecognizer:
		return "recognizer"
	case SourcePlain:
		return "plain"
	case SourceSeparated:
		return "separated"
	default:
		return "unknown"
	}
}

// Candidate is a span of the input believed to hold a registration code. Text
// is verbatim and may still contain separators.
type Candidate struct {
	Text   string
	Source Source
}

var (
	plainPattern     = regexp.MustCompile(`[0-9]{9}`)
	separatedPattern = regexp.MustCompile(`[0-9]{3}[ -][0-9]{3}[ -][0-9]{3}`)
)

// Options selects the active sources. The plain 9-digit scan is always on.
type Options struct {
	// Separated enables the "ddd ddd ddd" / "ddd-ddd-ddd" scan.
	Separated bool
	// Recognizer, when non-nil, contributes entity spans labelled Label.
	Recognizer recognize.Recognizer
	// Label defaults to recognize.DefaultLabel.
	Label string
}

// Locator runs the configured scans over a text.
type Locator struct {
	opts Options
}

func New(opts Options) *Locator {
	if opts.Label == "" {
		opts.Label = recognize.DefaultLabel
	}
	return &Locator{opts: opts}
}

// Locate returns all candidates: recognizer spans first, then plain runs, then
// separated groups, each in text order. A failing recognizer contributes
// nothing; the pattern scans still run.
func (l *Locator) Locate(ctx context.Context, text string) []Candidate {
	var out []Candidate
	if l.opts.Recognizer != nil {
		entities, err := l.opts.Recognizer.Recognize(ctx, text)
		if err != nil {
			log.Warn().Err(err).Str("stage", "locate").Msg("recognizer failed; using patterns only")
		}
		for _, span := range recognize.WithLabel(entities, l.opts.Label) {
			out = append(out, Candidate{Text: span, Source: SourceRecognizer})
		}
	}
	for _, m := range Plain(text) {
		out = append(out, Candidate{Text: m, Source: SourcePlain})
	}
	if l.opts.Separated {
		for _, m := range Separated(text) {
			out = append(out, Candidate{Text: m, Source: SourceSeparated})
		}
	}
	log.Debug().Str("stage", "locate").Int("candidates", len(out)).Bool("separated", l.opts.Separated).Bool("recognizer", l.opts.Recognizer != nil).Msg("located candidates")
	return out
}

// Plain returns every run of exactly nine digits that is not glued to another
// letter, digit or underscore.
func Plain(text string) []string {
	return scan(plainPattern, text)
}

// Separated returns every nine-digit quantity written as three groups of three
// digits joined by a single space or hyphen, with the same boundary rule.
func Separated(text string) []string {
	return scan(separatedPattern, text)
}

// scan finds non-overlapping bounded matches. A match rejected by the boundary
// check does not consume input: the search resumes one byte after its start,
// so a valid match overlapping a rejected one is still found.
func scan(re *regexp.Regexp, text string) []string {
	var out []string
	pos := 0
	for pos < len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if bounded(text, start, end) {
			out = append(out, text[start:end])
			pos = end
			continue
		}
		pos = start + 1
	}
	return out
}

func bounded(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

// isWordRune matches the Unicode word characters: letters, numbers and '_'.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
