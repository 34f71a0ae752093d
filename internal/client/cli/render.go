package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/learnjournal/internal/streak"
)

var (
	accent = lipgloss.Color("#8B9B7E")
	muted  = lipgloss.Color("#9E9E9E")

	cardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Foreground(muted)
	activeDay  = lipgloss.NewStyle().Foreground(accent)
	idleDay    = lipgloss.NewStyle().Foreground(muted)
)

// renderMarkdown is a seam for the glamour renderer.
var renderMarkdown = func(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// renderStreakCard draws the streak summary and the trailing window, one
// cell per day, oldest first.
func renderStreakCard(stats *streak.Stats, window []streak.Day) string {
	today := "not yet, add an entry to keep the streak"
	if stats.TodayCompleted {
		today = "done"
	}

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-8s", label)) + " " + value
	}

	lines := []string{
		titleStyle.Render("Learning streak"),
		row("Current", plural(stats.CurrentStreak, "day")),
		row("Longest", plural(stats.LongestStreak, "day")),
		row("Total", plural(stats.TotalDays, "day")),
		row("Today", today),
	}

	if len(window) > 0 {
		var cells strings.Builder
		for i, d := range window {
			if i > 0 {
				cells.WriteByte(' ')
			}
			if d.Active {
				cells.WriteString(activeDay.Render("■"))
			} else {
				cells.WriteString(idleDay.Render("□"))
			}
		}
		lines = append(lines, "",
			cells.String(),
			labelStyle.Render(fmt.Sprintf("%s .. %s", window[0].Date, window[len(window)-1].Date)),
		)
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}
