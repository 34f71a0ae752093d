package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) entriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "entries",
		Short:             "List, add and delete journal entries",
		PersistentPreRunE: a.requireLogin,
	}
	cmd.AddCommand(a.entriesListCommand(), a.entriesAddCommand(), a.entriesDeleteCommand())
	return cmd
}

func (a *App) entriesListCommand() *cobra.Command {
	var query, status string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.api.ListEntries(cmd.Context(), query, status)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "match title, content or summary")
	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status ("+strings.Join(models.Statuses, ", ")+" or all)")
	return cmd
}

func printEntries(w io.Writer, list []models.Entry) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No entries.")
		return
	}
	for _, e := range list {
		topic := ""
		if e.Topic != nil {
			topic = " [" + e.Topic.Name + "]"
		}
		tags := make([]string, 0, len(e.Tags))
		for _, t := range e.Tags {
			tags = append(tags, "#"+t.Name)
		}
		fmt.Fprintf(w, "%s  %-9s %s%s %s\n", e.ID, e.Status, e.Title, topic, strings.Join(tags, " "))
	}
}

type entryFlags struct {
	title, content, summary, topic, status string
	tags, links                            []string
}

func (a *App) entriesAddCommand() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry; counts toward today's streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var err error
			if f.title == "" {
				if f.title, err = GetSimpleText(a.in, "Title", out); err != nil {
					return err
				}
			}
			if f.title == "" {
				return errors.New("title is required")
			}
			if !cmd.Flags().Changed("content") {
				if f.content, err = GetMultiline(a.in, "Content", out); err != nil {
					return err
				}
			}

			in := models.EntryInput{
				Title:          f.title,
				Content:        optional(f.content),
				Summary:        optional(f.summary),
				Status:         f.status,
				ReferenceLinks: f.links,
			}
			if f.topic != "" {
				id, err := a.topicID(ctx, f.topic)
				if err != nil {
					return err
				}
				in.TopicID = &id
			}
			if len(f.tags) > 0 {
				ids, err := a.tagIDs(ctx, f.tags)
				if err != nil {
					return err
				}
				in.TagIDs = &ids
			}

			e, err := a.api.CreateEntry(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Added entry %s\n", e.ID)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.title, "title", "t", "", "entry title")
	fl.StringVar(&f.content, "content", "", "entry content (prompted when omitted)")
	fl.StringVar(&f.summary, "summary", "", "short summary")
	fl.StringVar(&f.topic, "topic", "", "topic name, created when missing")
	fl.StringVarP(&f.status, "status", "s", "active", "entry status")
	fl.StringSliceVar(&f.tags, "tag", nil, "tag name (repeatable)")
	fl.StringSliceVar(&f.links, "link", nil, "reference link (repeatable)")
	return cmd
}

func (a *App) entriesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeleteEntry(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

// topicID resolves a topic by name, case-insensitively, creating it when
// it does not exist yet.
func (a *App) topicID(ctx context.Context, name string) (string, error) {
	topics, err := a.api.ListTopics(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range topics {
		if strings.EqualFold(t.Name, name) {
			return t.ID, nil
		}
	}
	t, err := a.api.CreateTopic(ctx, name, "")
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

// tagIDs maps tag names to ids. The server reuses existing tags on create.
func (a *App) tagIDs(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, n := range names {
		t, err := a.api.CreateTag(ctx, n)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
