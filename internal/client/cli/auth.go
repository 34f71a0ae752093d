package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/learnjournal/internal/client/client"
	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/spf13/cobra"
)

func (a *App) credentials(cmd *cobra.Command, email string) (string, []byte, error) {
	var err error
	if email == "" {
		email, err = GetSimpleText(a.in, "Enter email", cmd.OutOrStdout())
		if err != nil {
			return "", nil, err
		}
	}
	password, err := GetPassword(cmd.OutOrStdout())
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) registerCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := a.credentials(cmd, email)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			if err := a.auth.Register(cmd.Context(), email, password); err != nil {
				if errors.Is(err, common.ErrorAlreadyExists) {
					return fmt.Errorf("an account for %s already exists", email)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registered. Now run: learnjournal login")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := a.credentials(cmd, email)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			if err := a.auth.Login(cmd.Context(), email, password); err != nil {
				if errors.Is(err, client.ErrUnauthorized) {
					return errors.New("login unsuccessful: wrong email or password")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login successful")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
