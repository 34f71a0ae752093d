// Package cli implements the learnjournal terminal client on top of cobra.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/learnjournal/internal/client/client"
	"github.com/dmitrijs2005/learnjournal/internal/client/config"
	"github.com/dmitrijs2005/learnjournal/internal/client/services"
)

type App struct {
	config    *config.Config
	in        *bufio.Reader
	state     *client.State
	api       *client.HTTPClient
	auth      *services.AuthService
	assistant *services.AssistantService
	notify    *services.NotifyService
	email     string
}

// NewApp opens the local state file and restores any saved session.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdin, &http.Client{})
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, hc *http.Client) (*App, error) {
	st, err := client.OpenState(ctx, c.StatePath)
	if err != nil {
		return nil, fmt.Errorf("error opening state: %w", err)
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, hc)
	api.SetStreamTimeout(c.StreamTimeout)
	auth := services.NewAuthService(api, st.DB)
	api.OnTokens(auth.SaveTokens)

	email, err := auth.Restore(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("error restoring session: %w", err)
	}

	return &App{
		config:    c,
		in:        bufio.NewReader(in),
		state:     st,
		api:       api,
		auth:      auth,
		assistant: services.NewAssistantService(api),
		notify:    services.NewNotifyService(api, st.Metadata),
		email:     email,
	}, nil
}

func (a *App) Close() error {
	return a.state.Close()
}

// Run executes one CLI invocation.
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.api.Tokens().AccessToken != ""
}
