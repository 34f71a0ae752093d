package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *App) favoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "favorites",
		Short:             "Saved interview questions",
		PersistentPreRunE: a.requireLogin,
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved questions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.api.ListFavorites(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No saved questions.")
			}
			for _, f := range list {
				topic := ""
				if f.SourceTopic != nil {
					topic = " (" + *f.SourceTopic + ")"
				}
				fmt.Fprintf(out, "%s  [%s, %s] %s%s\n", f.ID, f.Difficulty, f.Category, f.Question, topic)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <number>",
		Short: "Save a question from the last interview run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("question number: %w", err)
			}

			raw, err := a.state.Metadata.Get(ctx, keyLastInterview)
			if err != nil {
				return err
			}
			if raw == nil {
				return errors.New(`no interview questions yet, run "learnjournal interview" first`)
			}
			var last savedInterview
			if err := json.Unmarshal(raw, &last); err != nil {
				return err
			}
			if last.Prep == nil || n < 1 || n > len(last.Prep.Questions) {
				return fmt.Errorf("no question %d in the last interview run", n)
			}

			f, err := a.api.AddFavorite(ctx, last.Prep.Questions[n-1], optional(last.Focus))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", f.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved question",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.RemoveFavorite(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed")
			return nil
		},
	})
	return cmd
}
