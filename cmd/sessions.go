package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astroworld-labs/murph/internal/session"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage chat sessions",
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsNewCmd())
	cmd.AddCommand(newSessionsRenameCmd())
	cmd.AddCommand(newSessionsDeleteCmd())
	cmd.AddCommand(newSessionsClearCmd())
	cmd.AddCommand(newSessionsClearAllCmd())

	return cmd
}

// sessionService builds the session service for one-shot commands.
func sessionService(cmd *cobra.Command) (*session.Service, error) {
	cfg, client, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	store := session.NewFileStore(cfg.SessionsPath())
	return session.NewService(store, client, nil)
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := sessionService(cmd)
			if err != nil {
				return err
			}

			activeID := svc.ActiveID()
			for _, sess := range svc.Sessions() {
				marker := " "
				if sess.ID == activeID {
					marker = "*"
				}
				fmt.Printf("%s %s  %-30s  %d messages\n", marker, sess.ID, sess.Title, len(sess.Messages))
			}
			return nil
		},
	}
}

func newSessionsNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a new session and make it active",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := sessionService(cmd)
			if err != nil {
				return err
			}

			sess, err := svc.New(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Created session %s\n", sess.ID)
			return nil
		},
	}
}

func newSessionsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := sessionService(cmd)
			if err != nil {
				return err
			}

			title := strings.Join(args[1:], " ")
			if err := svc.Rename(cmd.Context(), args[0], title); err != nil {
				return err
			}
			fmt.Printf("Renamed session %s to %q\n", args[0], title)
			return nil
		},
	}
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session locally and on the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := sessionService(cmd)
			if err != nil {
				return err
			}

			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted session %s\n", args[0])
			return nil
		},
	}
}

func newSessionsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id>",
		Short: "Remove all messages from a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := sessionService(cmd)
			if err != nil {
				return err
			}

			if err := svc.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Cleared session %s\n", args[0])
			return nil
		},
	}
}

func newSessionsClearAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-all",
		Short: "Delete every session and start fresh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := sessionService(cmd)
			if err != nil {
				return err
			}

			if err := svc.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("All sessions cleared.")
			return nil
		},
	}
}
