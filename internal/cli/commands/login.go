package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/client"
	"github.com/storefront-dev/storefront/internal/cli/userconfig"
	"github.com/storefront-dev/storefront/internal/guard"
)

// NewLoginCmd creates the login command
func NewLoginCmd(opts ...Option) *cobra.Command {
	o := buildOptions(opts)
	var email, password, from string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a storefront server",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runLogin(e, email, password, from)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set STOREFRONT_EMAIL, defaults to the last one used on this server)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set STOREFRONT_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&from, "from", "", "Location to continue to after login")

	return cmd
}

func runLogin(e *env, email, password, from string) error {
	if err := e.authorize(guard.LoginPath); err != nil {
		return err
	}

	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = e.cfg.Email
	}
	if password == "" {
		password = e.cfg.Password
	}
	if email == "" {
		last, err := userconfig.LastEmail(e.api.BaseURL())
		if err != nil {
			e.logger.Warn().Err(err).Msg("Failed to read remembered email")
		}
		email = last
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or STOREFRONT_EMAIL env var)")
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		p, err := readPassword(e.prompter, "Password")
		if err != nil {
			return err
		}
		password = p
	}

	fmt.Fprintf(e.out, "Logging in to %s...\n", e.api.BaseURL())

	resp, err := e.api.Login(e.ctx, client.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// An interrupted login must not leave a session behind
	if err := e.ctx.Err(); err != nil {
		return err
	}

	if err := e.session.SetTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := userconfig.RememberEmail(e.api.BaseURL(), strings.TrimSpace(email)); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to remember login email")
	}

	user := e.session.User()
	fmt.Fprintln(e.out, "✓ Login successful!")
	if user != nil {
		fmt.Fprintf(e.out, "  User: %s\n", orDash(user.Email))
		if len(user.Roles) > 0 {
			fmt.Fprintf(e.out, "  Roles: %s\n", strings.Join(user.Roles, ", "))
		}
	} else {
		e.logger.Warn().Msg("Access token payload could not be decoded")
	}

	next := guard.AfterLogin(from, user)
	fmt.Fprintf(e.out, "\nNext: %s\n", commandFor(next))

	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(opts ...Option) *cobra.Command {
	o := buildOptions(opts)

	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runLogout(e)
		},
	}
}

func runLogout(e *env) error {
	if e.session.AccessToken() != "" {
		// The server call is best effort; local state is cleared regardless
		if err := e.api.Logout(e.ctx); err != nil {
			e.logger.Warn().Err(err).Msg("Server logout failed")
			fmt.Fprintf(e.out, "Warning: server logout failed: %v\n", err)
		}
	}

	if err := e.session.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Fprintln(e.out, "✓ Logged out")
	return nil
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(opts ...Option) *cobra.Command {
	o := buildOptions(opts)

	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runWhoami(e)
		},
	}
}

func runWhoami(e *env) error {
	s := e.session.Session()
	if !s.IsAuthenticated() {
		fmt.Fprintln(e.out, "Not logged in.")
		return nil
	}
	if s.User == nil {
		fmt.Fprintln(e.out, "Logged in, but the access token could not be decoded.")
		return nil
	}

	fmt.Fprintf(e.out, "ID:     %s\n", orDash(s.User.ID))
	fmt.Fprintf(e.out, "Email:  %s\n", orDash(s.User.Email))
	fmt.Fprintf(e.out, "Roles:  %s\n", orDash(strings.Join(s.User.Roles, ", ")))
	fmt.Fprintf(e.out, "Server: %s\n", e.api.BaseURL())
	return nil
}
