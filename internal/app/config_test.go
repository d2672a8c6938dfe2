package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile_YAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sirenextract.yaml")
	content := `
input: annonce.txt
format: html
output:
  csv: out.csv
  xlsx: out.xlsx
  includeInvalid: true
patterns:
  separated: false
recognizer:
  label: REG
  llm:
    base: http://localhost:8081/v1
    model: ner
cache:
  dir: .cache
  maxAge: 24h
verbose: true
`
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	fc, err := LoadConfigFile(p)
	require.NoError(t, err)

	var cfg Config
	ApplyFileConfig(&cfg, fc)
	assert.Equal(t, "annonce.txt", cfg.InputPath)
	assert.Equal(t, "html", cfg.InputFormat)
	assert.Equal(t, "out.csv", cfg.OutputCSV)
	assert.Equal(t, "out.xlsx", cfg.OutputXLSX)
	assert.True(t, cfg.IncludeInvalid)
	assert.True(t, cfg.DisableSeparated)
	assert.False(t, cfg.DisableRecognizer)
	assert.Equal(t, "REG", cfg.EntityLabel)
	assert.Equal(t, "http://localhost:8081/v1", cfg.LLMBaseURL)
	assert.Equal(t, "ner", cfg.LLMModel)
	assert.Equal(t, ".cache", cfg.CacheDir)
	assert.Equal(t, 24*time.Hour, cfg.CacheMaxAge)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigFile_JSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"input":"a.txt","recognizer":{"enable":false}}`), 0o644))
	fc, err := LoadConfigFile(p)
	require.NoError(t, err)
	var cfg Config
	ApplyFileConfig(&cfg, fc)
	assert.Equal(t, "a.txt", cfg.InputPath)
	assert.True(t, cfg.DisableRecognizer)
}

func TestLoadConfigFile_TOML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sirenextract.toml")
	content := `input = "notice.html"
format = "html"

[output]
xlsx = "out.xlsx"

[patterns]
separated = false

[recognizer]
label = "REG_CODE"

[recognizer.llm]
model = "ner"
`
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	fc, err := LoadConfigFile(p)
	require.NoError(t, err)
	var cfg Config
	ApplyFileConfig(&cfg, fc)
	assert.Equal(t, "notice.html", cfg.InputPath)
	assert.Equal(t, "html", cfg.InputFormat)
	assert.Equal(t, "out.xlsx", cfg.OutputXLSX)
	assert.True(t, cfg.DisableSeparated)
	assert.Equal(t, "REG_CODE", cfg.EntityLabel)
	assert.Equal(t, "ner", cfg.LLMModel)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("input = "), 0o644))
	_, err = LoadConfigFile(bad)
	assert.ErrorContains(t, err, "parse toml")
}

func TestLoadConfigFile_Errors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "bad.conf")
	require.NoError(t, os.WriteFile(p, []byte("{{{"), 0o644))
	_, err = LoadConfigFile(p)
	assert.Error(t, err)
}

func TestApplyFileConfig_ExplicitValuesWin(t *testing.T) {
	var fc FileConfig
	fc.Input = "file.txt"
	fc.Recognizer.LLM.Model = "file-model"
	fc.Output.CSV = "file.csv"

	cfg := Config{InputText: "inline", LLMModel: "flag-model", OutputCSV: "flag.csv"}
	ApplyFileConfig(&cfg, fc)
	assert.Empty(t, cfg.InputPath)
	assert.Equal(t, "flag-model", cfg.LLMModel)
	assert.Equal(t, "flag.csv", cfg.OutputCSV)
}

func TestApplyEnvToConfig(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "http://env/v1")
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("SIREN_ENTITY_LABEL", "SIREN_CODE")
	t.Setenv("CACHE_DIR", "/tmp/siren-cache")
	t.Setenv("CACHE_MAX_AGE", "2h")
	t.Setenv("VERBOSE", "yes")
	t.Setenv("SIREN_NO_SEPARATED", "1")

	cfg := Config{LLMModel: "flag-model"}
	ApplyEnvToConfig(&cfg)
	assert.Equal(t, "http://env/v1", cfg.LLMBaseURL)
	assert.Equal(t, "flag-model", cfg.LLMModel)
	assert.Equal(t, "secret", cfg.LLMAPIKey)
	assert.Equal(t, "SIREN_CODE", cfg.EntityLabel)
	assert.Equal(t, "/tmp/siren-cache", cfg.CacheDir)
	assert.Equal(t, 2*time.Hour, cfg.CacheMaxAge)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.DisableSeparated)
	assert.False(t, cfg.DisableRecognizer)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(Config{InputPath: "a.txt"}))
	assert.NoError(t, ValidateConfig(Config{InputText: "732829320", InputFormat: "text"}))
	assert.ErrorIs(t, ValidateConfig(Config{}), ErrNoInput)
	assert.ErrorIs(t, ValidateConfig(Config{InputPath: "a", InputText: "b"}), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateConfig(Config{InputPath: "a", InputFormat: "docx"}), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateConfig(Config{InputPath: "a", CacheMaxAge: -time.Second}), ErrInvalidConfig)
}
