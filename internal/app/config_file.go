package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/sirenextract/internal/document"
)

var (
	// ErrInvalidConfig is wrapped by every ValidateConfig error.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrNoInput is returned when neither an input path nor inline text is set.
	ErrNoInput = fmt.Errorf("%w: an input file or --text is required", ErrInvalidConfig)
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Input  string `yaml:"input" json:"input" toml:"input"`
	Format string `yaml:"format" json:"format" toml:"format"`

	Output struct {
		CSV            string `yaml:"csv" json:"csv" toml:"csv"`
		XLSX           string `yaml:"xlsx" json:"xlsx" toml:"xlsx"`
		PDF            string `yaml:"pdf" json:"pdf" toml:"pdf"`
		Manifest       string `yaml:"manifest" json:"manifest" toml:"manifest"`
		IncludeInvalid bool   `yaml:"includeInvalid" json:"includeInvalid" toml:"includeInvalid"`
	} `yaml:"output" json:"output" toml:"output"`

	Patterns struct {
		Separated *bool `yaml:"separated" json:"separated" toml:"separated"`
	} `yaml:"patterns" json:"patterns" toml:"patterns"`

	Recognizer struct {
		Enable       *bool  `yaml:"enable" json:"enable" toml:"enable"`
		Label        string `yaml:"label" json:"label" toml:"label"`
		EntitiesFile string `yaml:"entitiesFile" json:"entitiesFile" toml:"entitiesFile"`
		LLM          struct {
			BaseURL string `yaml:"base" json:"base" toml:"base"`
			Model   string `yaml:"model" json:"model" toml:"model"`
			APIKey  string `yaml:"key" json:"key" toml:"key"`
		} `yaml:"llm" json:"llm" toml:"llm"`
	} `yaml:"recognizer" json:"recognizer" toml:"recognizer"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir" toml:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge" toml:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear" toml:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms" toml:"strictPerms"`
	} `yaml:"cache" json:"cache" toml:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose" toml:"verbose"`
}

// LoadConfigFile reads YAML, JSON or TOML into FileConfig. The format follows
// the extension; unknown extensions are tried as YAML then JSON.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse toml: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for fields that are still
// unset, so flags and env keep precedence over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.InputPath == "" && cfg.InputText == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if (cfg.InputFormat == "" || cfg.InputFormat == string(document.FormatAuto)) && fc.Format != "" {
		cfg.InputFormat = fc.Format
	}

	if cfg.OutputCSV == "" && fc.Output.CSV != "" {
		cfg.OutputCSV = fc.Output.CSV
	}
	if cfg.OutputXLSX == "" && fc.Output.XLSX != "" {
		cfg.OutputXLSX = fc.Output.XLSX
	}
	if cfg.OutputPDF == "" && fc.Output.PDF != "" {
		cfg.OutputPDF = fc.Output.PDF
	}
	if cfg.ManifestPath == "" && fc.Output.Manifest != "" {
		cfg.ManifestPath = fc.Output.Manifest
	}
	if !cfg.IncludeInvalid && fc.Output.IncludeInvalid {
		cfg.IncludeInvalid = true
	}

	// Both sources default on; the file may switch them off.
	if fc.Patterns.Separated != nil && !*fc.Patterns.Separated {
		cfg.DisableSeparated = true
	}
	if fc.Recognizer.Enable != nil && !*fc.Recognizer.Enable {
		cfg.DisableRecognizer = true
	}
	if cfg.EntityLabel == "" && fc.Recognizer.Label != "" {
		cfg.EntityLabel = fc.Recognizer.Label
	}
	if cfg.EntitiesFile == "" && fc.Recognizer.EntitiesFile != "" {
		cfg.EntitiesFile = fc.Recognizer.EntitiesFile
	}
	if cfg.LLMBaseURL == "" && fc.Recognizer.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.Recognizer.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.Recognizer.LLM.Model != "" {
		cfg.LLMModel = fc.Recognizer.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.Recognizer.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.Recognizer.LLM.APIKey
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal validation of required settings.
func ValidateConfig(cfg Config) error {
	hasPath := strings.TrimSpace(cfg.InputPath) != ""
	hasText := cfg.InputText != ""
	if !hasPath && !hasText {
		return ErrNoInput
	}
	if hasPath && hasText {
		return fmt.Errorf("%w: input file and --text are mutually exclusive", ErrInvalidConfig)
	}
	if _, err := document.ParseFormat(cfg.InputFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.CacheMaxAge < 0 {
		return fmt.Errorf("%w: negative cache max age is not allowed", ErrInvalidConfig)
	}
	return nil
}
