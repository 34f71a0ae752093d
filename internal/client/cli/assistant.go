package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/assistant/sse"
	"github.com/spf13/cobra"
)

// keyLastInterview holds the most recent interview-prep result so that
// "favorites add" can refer to its questions by number.
const keyLastInterview = "last_interview"

type savedInterview struct {
	Focus string                   `json:"focus"`
	Prep  *assistant.InterviewPrep `json:"prep"`
}

// progressPrinter writes only the part of the accumulated text that has
// not been printed yet.
func progressPrinter(w io.Writer) sse.ProgressFunc {
	printed := 0
	return func(partial string) {
		fmt.Fprint(w, partial[printed:])
		printed = len(partial)
	}
}

// streamAnswer prints the answer as it arrives and, with markdown set,
// prints a rendered copy of the final text after it.
func (a *App) streamAnswer(cmd *cobra.Command, markdown bool, run func(context.Context, sse.ProgressFunc) (string, error)) error {
	out := cmd.OutOrStdout()
	text, err := run(cmd.Context(), progressPrinter(out))
	fmt.Fprintln(out)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("cancelled")
		}
		return err
	}
	if markdown && strings.TrimSpace(text) != "" {
		rendered, err := renderMarkdown(text)
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		fmt.Fprint(out, rendered)
	}
	return nil
}

func (a *App) searchCommand() *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Ask the assistant a question about your entries",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return a.streamAnswer(cmd, markdown, func(ctx context.Context, p sse.ProgressFunc) (string, error) {
				return a.assistant.Search(ctx, query, p)
			})
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render the final answer as markdown")
	return cmd
}

func (a *App) insightsCommand() *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:     "insights",
		Short:   "Get an analysis of your learning patterns",
		Args:    cobra.NoArgs,
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.streamAnswer(cmd, markdown, a.assistant.Insights)
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render the final answer as markdown")
	return cmd
}

func (a *App) interviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "interview [focus]",
		Short:   "Generate interview questions from your entries",
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			focus := strings.Join(args, " ")

			prep, err := a.assistant.InterviewPrep(ctx, focus)
			if err != nil {
				return err
			}

			b, err := json.Marshal(savedInterview{Focus: focus, Prep: prep})
			if err != nil {
				return err
			}
			if err := a.state.Metadata.Set(ctx, keyLastInterview, b); err != nil {
				return err
			}

			printInterview(cmd.OutOrStdout(), prep)
			return nil
		},
	}
}

func printInterview(w io.Writer, prep *assistant.InterviewPrep) {
	if len(prep.TopicsIdentified) > 0 {
		fmt.Fprintf(w, "Topics: %s\n\n", strings.Join(prep.TopicsIdentified, ", "))
	}
	for i, q := range prep.Questions {
		fmt.Fprintf(w, "%d. [%s, %s] %s\n", i+1, q.Difficulty, q.Category, q.Question)
		if q.WhyAsked != "" {
			fmt.Fprintf(w, "   Why it is asked: %s\n", q.WhyAsked)
		}
		if q.SampleAnswer != "" {
			fmt.Fprintf(w, "   Sample answer: %s\n", q.SampleAnswer)
		}
		for _, kp := range q.KeyPoints {
			fmt.Fprintf(w, "   - %s\n", kp)
		}
		if q.FollowUp != "" {
			fmt.Fprintf(w, "   Follow-up: %s\n", q.FollowUp)
		}
		fmt.Fprintln(w)
	}
	if len(prep.StudyTips) > 0 {
		fmt.Fprintln(w, "Study tips:")
		for _, tip := range prep.StudyTips {
			fmt.Fprintf(w, "  * %s\n", tip)
		}
	}
	fmt.Fprintln(w, `Save a question with "learnjournal favorites add <number>".`)
}
