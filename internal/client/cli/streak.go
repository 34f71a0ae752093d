package cli

import (
	"fmt"

	"github.com/dmitrijs2005/learnjournal/internal/streak"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (a *App) streakCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:     "streak",
		Short:   "Show your learning streak",
		Args:    cobra.NoArgs,
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				stats  *streak.Stats
				window []streak.Day
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				stats, err = a.api.Streak(ctx)
				return err
			})
			g.Go(func() (err error) {
				window, err = a.api.StreakWindow(ctx, days)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStreakCard(stats, window))
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", streak.DefaultWindowDays, "days shown in the activity row")
	return cmd
}
