package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/sirenextract/internal/app"
)

type extractOptions struct {
	cfg        app.Config
	configPath string
	envFiles   []string
	asJSON     bool
}

func newExtractCmd(session *app.Stats) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract SIREN numbers from a document",
		Long: `Reads a UTF-8 text or HTML legal notice (or --text), proposes candidate
codes from digit patterns and the optional entity recognizer, and prints the
valid ones. Use --csv, --xlsx or --pdf to export them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.cfg.InputPath = args[0]
			}
			return runExtract(cmd, opts, session)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.cfg.InputText, "text", "", "Raw text to scan instead of a file")
	f.StringVar(&opts.cfg.InputFormat, "format", "", "Input format: auto, text or html (default auto)")
	f.StringVar(&opts.cfg.OutputCSV, "csv", "", "Write valid codes as CSV to this path (\"auto\" for a timestamped name)")
	f.StringVar(&opts.cfg.OutputXLSX, "xlsx", "", "Write valid codes as an Excel workbook")
	f.StringVar(&opts.cfg.OutputPDF, "pdf", "", "Write valid codes as a PDF table")
	f.StringVar(&opts.cfg.ManifestPath, "manifest", "", "Write a JSON run manifest to this path")
	f.BoolVar(&opts.cfg.IncludeInvalid, "include-invalid", false, "Also export codes that fail the checksum")
	f.BoolVar(&opts.cfg.DisableSeparated, "no-separated", false, "Disable the \"ddd ddd ddd\" pattern")
	f.BoolVar(&opts.cfg.DisableRecognizer, "no-recognizer", false, "Disable the entity recognizer")
	f.StringVar(&opts.cfg.EntityLabel, "label", "", "Entity label treated as a SIREN (default SIREN)")
	f.StringVar(&opts.cfg.EntitiesFile, "entities", "", "JSON file of precomputed entity spans")
	f.StringVar(&opts.cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL for the recognizer")
	f.StringVar(&opts.cfg.LLMModel, "llm.model", "", "Model name for the recognizer")
	f.StringVar(&opts.cfg.LLMAPIKey, "llm.key", "", "API key for the OpenAI-compatible server")
	f.StringVar(&opts.cfg.CacheDir, "cache.dir", "", "Recognizer cache directory")
	f.DurationVar(&opts.cfg.CacheMaxAge, "cache.maxAge", 0, "Purge recognizer cache entries older than this (0 disables)")
	f.BoolVar(&opts.cfg.CacheClear, "cache.clear", false, "Clear the recognizer cache before the run")
	f.BoolVar(&opts.cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	f.StringVar(&opts.configPath, "config", "", "YAML or JSON config file")
	f.StringSliceVar(&opts.envFiles, "env-file", []string{".env", ".env.local"}, "Dotenv files to load")
	f.BoolVar(&opts.asJSON, "json", false, "Print the report as JSON")
	return cmd
}

type jsonReport struct {
	RunID   string   `json:"run_id"`
	Valid   []string `json:"valid"`
	Invalid []string `json:"invalid"`
	Outputs []string `json:"outputs,omitempty"`
}

func runExtract(cmd *cobra.Command, opts *extractOptions, session *app.Stats) error {
	if err := app.LoadEnvFiles(opts.envFiles...); err != nil {
		return err
	}
	cfg := opts.cfg
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(opts.configPath) != "" {
		fc, err := app.LoadConfigFile(opts.configPath)
		if err != nil {
			return fmt.Errorf("%w: %v", app.ErrInvalidConfig, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	out, err := a.Run(ctx)
	if err != nil {
		return err
	}
	session.Record(out.Report)
	log.Info().Str("run_id", out.RunID).Dur("elapsed", time.Since(start)).Int("extractions", session.Extractions).Int("valid_total", session.ValidFound).Msg("session stats")

	w := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonReport{RunID: out.RunID, Valid: out.Report.Valid, Invalid: out.Report.Invalid, Outputs: out.Outputs})
	}
	if len(out.Report.Valid) == 0 {
		fmt.Fprintln(w, "Aucun numéro SIREN valide trouvé.")
		return nil
	}
	fmt.Fprintf(w, "%d numéro(s) SIREN trouvé(s) :\n", len(out.Report.Valid))
	for _, code := range out.Report.Valid {
		fmt.Fprintln(w, code)
	}
	return nil
}
