package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "export",
		Short:   "Upload a snapshot of your journal and print a download link",
		Args:    cobra.NoArgs,
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.api.Export(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d entries to %s\n", e.Entries, e.Key)
			fmt.Fprintf(out, "Download (valid until %s):\n%s\n", e.ExpiresAt.Local().Format(time.Kitchen), e.URL)
			return nil
		},
	}
}
