package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) topicsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "topics",
		Short:             "List topics",
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			topics, err := a.api.ListTopics(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(topics) == 0 {
				fmt.Fprintln(out, "No topics.")
			}
			for _, t := range topics {
				fmt.Fprintf(out, "%s  %s  %s\n", t.ID, t.Color, t.Name)
			}
			return nil
		},
	}

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.api.CreateTopic(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created topic %s (%s)\n", t.Name, t.ID)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "hex color, server default when empty")
	cmd.AddCommand(add)
	return cmd
}

func (a *App) tagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "tags",
		Short:             "List tags",
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := a.api.ListTags(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tags) == 0 {
				fmt.Fprintln(out, "No tags.")
			}
			for _, t := range tags {
				fmt.Fprintf(out, "%s  #%s\n", t.ID, t.Name)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag, or show the existing one with that name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.api.CreateTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%s (%s)\n", t.Name, t.ID)
			return nil
		},
	})
	return cmd
}
