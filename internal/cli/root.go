// Package cli wires the sirenextract commands.
package cli

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/sirenextract/internal/app"
	"github.com/hyperifyio/sirenextract/internal/document"
)

// ErrInvalidCodes is returned by "validate --strict" when a code fails.
var ErrInvalidCodes = errors.New("one or more codes are invalid")

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "sirenextract",
		Short:         "Extract and validate SIREN numbers from legal notices",
		Long:          `Scans a legal-notice document for 9-digit SIREN registration numbers, checks them with the SIREN checksum, and exports the valid ones as CSV, XLSX or PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	session := &app.Stats{}
	root.AddCommand(newExtractCmd(session))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// ExitCode maps a command error to the process exit status: 2 for input that
// cannot be decoded and for invalid configuration, 1 for other failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, document.ErrDecoding), errors.Is(err, app.ErrInvalidConfig):
		return 2
	default:
		return 1
	}
}
