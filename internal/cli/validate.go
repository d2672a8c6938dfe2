package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/sirenextract/internal/siren"
)

func newValidateCmd() *cobra.Command {
	var strict, suggest bool
	cmd := &cobra.Command{
		Use:   "validate code...",
		Short: "Check SIREN numbers against the checksum",
		Long:  `Normalizes each argument (separators are ignored) and reports whether it is a valid SIREN. With --suggest, an 8-digit argument is completed with its check digit.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, arg := range args {
				code := siren.Normalize(arg)
				if suggest && len(code) == siren.Length-1 {
					d, err := siren.CheckDigit(code)
					if err == nil {
						fmt.Fprintf(w, "%s\tsuggestion\t%s\n", arg, code+string(d))
						continue
					}
				}
				status := "valide"
				if !siren.Validate(code) {
					status = "invalide"
					failed++
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", arg, status, code)
			}
			if strict && failed > 0 {
				return fmt.Errorf("%w: %d of %d", ErrInvalidCodes, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any code is invalid")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Complete 8-digit prefixes with their check digit")
	return cmd
}
