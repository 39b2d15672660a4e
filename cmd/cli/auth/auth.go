package auth

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/crucial707/forum-api/cmd/cli/client"
	"github.com/crucial707/forum-api/cmd/cli/config"
	"github.com/crucial707/forum-api/cmd/cli/output"
	"github.com/crucial707/forum-api/cmd/cli/root"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// InitAuth registers signup, login, logout and whoami on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), whoamiCmd())
}

func signupCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" {
				return errors.New("--username and --email are required")
			}
			if password == "" {
				var err error
				if password, err = readPassword(cmd, "Password: "); err != nil {
					return err
				}
			}

			if err := client.Public().Signup(cmd.Context(), username, email, password); err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. You can now log in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address used to log in")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

// loginCmd authenticates and stores the token and user locally.
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				var err error
				if password, err = readPassword(cmd, "Password: "); err != nil {
					return err
				}
			}

			res, err := client.New(config.APIURL(), "").Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			session := config.Session{
				Token: res.Token,
				User:  config.SessionUser{ID: res.User.ID, Username: res.User.Username},
			}
			if err := config.SaveSession(session); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", res.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			existed, err := config.ClearSession()
			if err != nil {
				return err
			}
			if !existed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// whoamiCmd checks the stored session against the API. A session the server
// no longer accepts is removed.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			user, err := c.Profile(cmd.Context())
			if err != nil {
				if client.IsStatus(err, http.StatusUnauthorized, http.StatusNotFound) {
					_, _ = config.ClearSession()
					return errors.New("session is no longer valid, please login again")
				}
				return err
			}

			if root.JSONOutput(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), user)
			}
			output.RenderTable(cmd.OutOrStdout(),
				[]string{"ID", "Username", "Email", "Joined"},
				[][]interface{}{{user.ID, user.Username, user.Email, user.CreatedAt.Format("2006-01-02")}})
			return nil
		},
	}
}

// readPassword prompts without echo on a terminal and falls back to reading a line.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
