package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/sirenextract/internal/cache"
	"github.com/hyperifyio/sirenextract/internal/document"
	"github.com/hyperifyio/sirenextract/internal/export"
	"github.com/hyperifyio/sirenextract/internal/llm"
	"github.com/hyperifyio/sirenextract/internal/pipeline"
	"github.com/hyperifyio/sirenextract/internal/recognize"
)

const (
	previewChars     = 500
	preflightTimeout = 5 * time.Second
)

// Recognizer kinds reported in logs and the manifest.
const (
	RecognizerNone = "none"
	RecognizerLLM  = "llm"
	RecognizerFile = "file"
)

type App struct {
	cfg            Config
	recognizer     recognize.Recognizer
	recognizerKind string
	label          string
	now            func() time.Time
}

// Outcome is what a successful run produced.
type Outcome struct {
	RunID   string
	Report  pipeline.Report
	Outputs []string
}

// New validates cfg and resolves the recognizer. An unreachable or
// misconfigured recognizer is logged and dropped, never returned as an error.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(cfg.EntityLabel)
	if label == "" {
		label = recognize.DefaultLabel
	}
	a := &App{cfg: cfg, label: label, now: time.Now}
	a.recognizer, a.recognizerKind = a.buildRecognizer(ctx)
	log.Debug().Str("recognizer", a.recognizerKind).Str("label", label).Msg("recognizer resolved")
	return a, nil
}

// RecognizerKind reports which recognizer the run will use.
func (a *App) RecognizerKind() string { return a.recognizerKind }

func (a *App) Close() {
	// nothing yet
}

func (a *App) buildRecognizer(ctx context.Context) (recognize.Recognizer, string) {
	if a.cfg.DisableRecognizer {
		return nil, RecognizerNone
	}
	if path := strings.TrimSpace(a.cfg.EntitiesFile); path != "" {
		if _, err := os.Stat(path); err != nil {
			log.Warn().Err(fmt.Errorf("%w: %v", recognize.ErrUnavailable, err)).Msg("entities file unreadable; using patterns only")
			return nil, RecognizerNone
		}
		return &recognize.FileRecognizer{Path: path}, RecognizerFile
	}
	if strings.TrimSpace(a.cfg.LLMModel) == "" {
		return nil, RecognizerNone
	}
	provider := llm.NewOpenAIProvider(a.cfg.LLMBaseURL, a.cfg.LLMAPIKey)
	if err := llm.Preflight(ctx, provider, a.cfg.LLMModel, preflightTimeout); err != nil {
		log.Warn().Err(fmt.Errorf("%w: %v", recognize.ErrUnavailable, err)).Msg("LLM recognizer unavailable; using patterns only")
		return nil, RecognizerNone
	}
	return &recognize.LLMRecognizer{
		Client:  provider,
		Model:   a.cfg.LLMModel,
		Label:   a.label,
		Cache:   a.openCache(),
		Verbose: a.cfg.Verbose,
	}, RecognizerLLM
}

func (a *App) openCache() *cache.LLMCache {
	dir := strings.TrimSpace(a.cfg.CacheDir)
	if dir == "" {
		return nil
	}
	if a.cfg.CacheClear {
		if err := cache.ClearDir(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("cache clear failed")
		}
	}
	if a.cfg.CacheMaxAge > 0 {
		if n, err := cache.PurgeByAge(dir, a.cfg.CacheMaxAge); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("cache purge failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("purged stale recognizer cache entries")
		}
	}
	return &cache.LLMCache{Dir: dir, StrictPerms: a.cfg.CacheStrictPerms}
}

// Run reads and decodes the input, extracts codes, and writes the configured
// exports. A decoding failure aborts before anything is written.
func (a *App) Run(ctx context.Context) (Outcome, error) {
	raw, err := a.readInput()
	if err != nil {
		return Outcome{}, fmt.Errorf("read input: %w", err)
	}
	format, _ := document.ParseFormat(a.cfg.InputFormat)
	text, err := document.Load(raw, format)
	if err != nil {
		return Outcome{}, err
	}
	log.Debug().Int("bytes", len(raw)).Int("chars", len([]rune(text))).Str("preview", document.Preview(text, previewChars)).Msg("input loaded")

	pcfg := pipeline.DefaultConfig(a.recognizer != nil)
	if a.cfg.DisableSeparated {
		pcfg.UseSeparatedPattern = false
	}
	p := &pipeline.Pipeline{Recognizer: a.recognizer, Label: a.label}
	report := p.Extract(ctx, text, pcfg)
	if len(report.Valid) == 0 {
		log.Info().Int("invalid", len(report.Invalid)).Msg("no valid SIREN found in input")
	} else {
		log.Info().Int("valid", len(report.Valid)).Int("invalid", len(report.Invalid)).Msg("SIREN extracted")
	}

	at := a.now()
	rows := export.Rows(report, at, a.cfg.IncludeInvalid)
	outputs, err := a.writeExports(rows, at)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{RunID: newRunID(), Report: report, Outputs: outputs}
	if path := strings.TrimSpace(a.cfg.ManifestPath); path != "" {
		m := buildManifest(out.RunID, at, a.cfg, raw, string(format), a.recognizerKind, pcfg, a.label, report, outputs)
		data, err := marshalManifestJSON(m)
		if err != nil {
			return Outcome{}, fmt.Errorf("encode manifest: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return Outcome{}, fmt.Errorf("write manifest: %w", err)
		}
		log.Info().Str("out", path).Msg("wrote manifest")
	}
	return out, nil
}

func (a *App) readInput() ([]byte, error) {
	if a.cfg.InputText != "" {
		return []byte(a.cfg.InputText), nil
	}
	return os.ReadFile(a.cfg.InputPath)
}

func (a *App) writeExports(rows []export.Row, at time.Time) ([]string, error) {
	var outputs []string
	csvPath := strings.TrimSpace(a.cfg.OutputCSV)
	if csvPath == "auto" {
		csvPath = export.DefaultFileName(at, export.FormatCSV)
	}
	targets := []struct {
		path  string
		write func(string, []export.Row) error
	}{
		{csvPath, export.WriteCSVFile},
		{strings.TrimSpace(a.cfg.OutputXLSX), export.WriteXLSX},
		{strings.TrimSpace(a.cfg.OutputPDF), export.WritePDF},
	}
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		if err := t.write(t.path, rows); err != nil {
			return outputs, fmt.Errorf("export %s: %w", t.path, err)
		}
		log.Info().Str("out", t.path).Int("rows", len(rows)).Msg("wrote export")
		outputs = append(outputs, t.path)
	}
	return outputs, nil
}
