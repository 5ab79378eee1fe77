package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/astroworld-labs/murph/internal/config"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to AstroWorld",
		Long: `Authenticate against the AstroWorld backend and store the token
pair in the murph config file. The password is read from the terminal
without echo; pass --username to skip the first prompt.`,
		RunE: runLogin,
	}
	cmd.Flags().StringP("username", "u", "", "AstroWorld username")
	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, client, err := setup(cmd)
	if err != nil {
		return err
	}

	username, err := cmd.Flags().GetString("username")
	if err != nil {
		return err
	}
	if username == "" {
		fmt.Print("Username: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	result, err := client.Login(cmd.Context(), username, string(password))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.Username = username
	if err := cfg.SetTokens(result.Access, result.Refresh); err != nil {
		return fmt.Errorf("storing tokens: %w", err)
	}
	if err := cfg.SetConfigField("username", username); err != nil {
		return fmt.Errorf("storing username: %w", err)
	}

	fmt.Printf("Logged in as %s\n", username)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard stored tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}
			if !cfg.IsLoggedIn() {
				fmt.Println("Not logged in.")
				return nil
			}

			// Best effort: the local tokens are discarded either way.
			if err := client.Logout(cmd.Context(), cfg.RefreshToken()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: backend logout failed: %v\n", err)
			}

			if err := cfg.ClearTokens(); err != nil {
				return fmt.Errorf("clearing tokens: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in AstroWorld account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}
			if !cfg.IsLoggedIn() {
				fmt.Println("Not logged in. Run 'murph login'.")
				return nil
			}

			user, err := client.CurrentUser(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching account: %w", err)
			}

			fmt.Printf("%s (%s)\n", user.Username, user.Email)
			if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
				fmt.Printf("Name:   %s\n", name)
			}
			if user.Bio != "" {
				fmt.Printf("Bio:    %s\n", user.Bio)
			}
			if user.DateJoined != "" {
				fmt.Printf("Joined: %s\n", user.DateJoined)
			}
			fmt.Printf("Server: %s\n", client.BaseURL())
			fmt.Printf("Config: %s\n", config.GlobalConfigPath())
			return nil
		},
	}
}
