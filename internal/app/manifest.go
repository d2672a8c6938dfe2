package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/sirenextract/internal/pipeline"
)

// manifest is the machine-readable record of one run, written next to the
// exports when a manifest path is configured.
type manifest struct {
	RunID       string    `json:"run_id"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	Input       struct {
		Path   string `json:"path,omitempty"`
		SHA256 string `json:"sha256"`
		Bytes  int    `json:"bytes"`
		Format string `json:"format"`
	} `json:"input"`
	Sources struct {
		Recognizer string `json:"recognizer"`
		Separated  bool   `json:"separated"`
		Label      string `json:"label"`
	} `json:"sources"`
	Counts struct {
		Candidates int `json:"candidates"`
		Valid      int `json:"valid"`
		Invalid    int `json:"invalid"`
	} `json:"counts"`
	Valid   []string `json:"valid"`
	Invalid []string `json:"invalid"`
	Outputs []string `json:"outputs,omitempty"`
}

func computeSHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func newRunID() string {
	return uuid.NewString()
}

func buildManifest(runID string, at time.Time, cfg Config, raw []byte, format string, recognizer string, pcfg pipeline.Config, label string, report pipeline.Report, outputs []string) manifest {
	var m manifest
	m.RunID = runID
	m.Version = BuildVersion
	m.GeneratedAt = at.UTC()
	m.Input.Path = cfg.InputPath
	m.Input.SHA256 = computeSHA256Hex(raw)
	m.Input.Bytes = len(raw)
	m.Input.Format = format
	m.Sources.Recognizer = recognizer
	m.Sources.Separated = pcfg.UseSeparatedPattern
	m.Sources.Label = label
	m.Counts.Candidates = report.Candidates
	m.Counts.Valid = len(report.Valid)
	m.Counts.Invalid = len(report.Invalid)
	m.Valid = report.Valid
	m.Invalid = report.Invalid
	m.Outputs = outputs
	return m
}

func marshalManifestJSON(m manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
