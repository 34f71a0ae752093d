package cli

import (
	"fmt"

	"github.com/dmitrijs2005/learnjournal/internal/client/models"
	"github.com/dmitrijs2005/learnjournal/internal/client/services"
	"github.com/spf13/cobra"
)

// Reminder toggling never fails the command: a problem is reported as a
// warning and the exit status stays zero.
func (a *App) notifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "notify",
		Short:             "Daily streak reminders",
		PersistentPreRunE: a.requireLogin,
	}

	var sub models.Subscription
	on := &cobra.Command{
		Use:   "on",
		Short: "Subscribe a push endpoint to streak reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.notify.Enable(cmd.Context(), services.StaticPush(sub)); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not enable reminders: %v\n", err)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reminders enabled")
			return nil
		},
	}
	on.Flags().StringVar(&sub.Endpoint, "endpoint", "", "push service endpoint URL")
	on.Flags().StringVar(&sub.Keys.P256dh, "p256dh", "", "subscription public key")
	on.Flags().StringVar(&sub.Keys.Auth, "auth", "", "subscription auth secret")

	var endpoint string
	off := &cobra.Command{
		Use:   "off",
		Short: "Stop streak reminders for an endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.notify.Disable(cmd.Context(), endpoint); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not disable reminders: %v\n", err)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reminders disabled")
			return nil
		},
	}
	off.Flags().StringVar(&endpoint, "endpoint", "", "endpoint to remove (defaults to the one enabled here)")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether reminders are enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.notify.Status(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not read reminder status: %v\n", err)
				return nil
			}
			if st.Subscribed {
				fmt.Fprintf(cmd.OutOrStdout(), "Reminders on (%d endpoint(s))\n", st.Endpoints)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Reminders off")
			}
			return nil
		},
	}

	cmd.AddCommand(on, off, status)
	return cmd
}
