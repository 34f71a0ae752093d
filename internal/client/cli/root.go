package cli

import (
	"github.com/dmitrijs2005/learnjournal/internal/client/client"
	"github.com/spf13/cobra"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "learnjournal",
		Short:         "Learning journal client",
		Long:          "Keep a learning journal, watch your streak and ask the assistant about what you wrote.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Owned by the config package; declared so cobra accepts them.
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (json or yaml)")
	pf.StringP("server", "a", a.config.ServerURL, "server URL")
	pf.String("state", a.config.StatePath, "local state database")
	pf.Int("timeout", int(a.config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.entriesCommand(),
		a.topicsCommand(),
		a.tagsCommand(),
		a.streakCommand(),
		a.searchCommand(),
		a.insightsCommand(),
		a.interviewCommand(),
		a.favoritesCommand(),
		a.notifyCommand(),
		a.exportCommand(),
	)
	return root
}

// requireLogin is a PreRunE for commands that need a session.
func (a *App) requireLogin(*cobra.Command, []string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	return nil
}
