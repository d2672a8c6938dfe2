package cli

import (
	"github.com/spf13/cobra"

	"github.com/hyperifyio/sirenextract/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("sirenextract version %s (commit %s, built %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		},
	}
}
