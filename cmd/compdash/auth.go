package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"compdash/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate against the backend and save the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		resp, err := client.Login(ctx, args[0], string(raw))
		if err != nil {
			return err
		}
		if err := sessions.Save(&session.Session{Token: resp.Token, User: resp.User}); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		// The server call is best-effort; the local session always goes.
		_ = client.Logout(ctx)
		if err := sessions.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session, verified against the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessions.Load()
		if err != nil {
			return err
		}
		if s == nil || !s.Valid() {
			return fmt.Errorf("not logged in")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		user, err := client.Verify(ctx)
		if err != nil {
			return fmt.Errorf("session invalid: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s\n", user.Name, user.Email, user.Role)
		return nil
	},
}
