package app

import "time"

// Config holds runtime configuration for one extraction run.
type Config struct {
	// Input: exactly one of InputPath or InputText.
	InputPath   string
	InputText   string
	InputFormat string // auto, text or html

	// Outputs; empty paths are skipped. OutputCSV "auto" uses the
	// timestamped default name in the working directory.
	OutputCSV      string
	OutputXLSX     string
	OutputPDF      string
	ManifestPath   string
	IncludeInvalid bool

	// Candidate sources
	DisableSeparated  bool
	DisableRecognizer bool
	EntityLabel       string
	EntitiesFile      string

	// LLM recognizer
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Recognizer cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}
