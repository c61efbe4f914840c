package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/config"
)

// LoginCmd returns the `nudi login` command.
func LoginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Create a session on a nudibranch server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, email)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func runLogin(cmd *cobra.Command, email string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	if strings.TrimSpace(email) == "" {
		if email, err = p.Input("email", s.cfg.Email); err != nil {
			return err
		}
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	password, err := p.Password("password")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	ctx := cmd.Context()
	resp, cookie, loginErr := s.client.Login(ctx, api.LoginInput{Email: email, Password: password})
	if err := s.dispatch(ctx, resp, loginErr); err != nil {
		return err
	}
	if cookie == "" {
		return fmt.Errorf("login failed: server did not set a session cookie")
	}

	s.cfg.Email = email
	s.cfg.SessionCookie = cookie
	if err := s.cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "logged in as %s\n", email)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LogoutCmd returns the `nudi logout` command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			resp, err := s.client.Logout(ctx)
			if err != nil {
				return outcomeErr(s.dispatcher.Fail(ctx, err))
			}
			// The session is gone server side whatever the answer says.
			dispatchErr := s.dispatch(ctx, resp, nil)

			s.cfg.SessionCookie = ""
			if err := s.cfg.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return dispatchErr
		},
	}
}
