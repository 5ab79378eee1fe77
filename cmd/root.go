// Package cmd provides the CLI commands for Murph.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astroworld-labs/murph/internal/api"
	"github.com/astroworld-labs/murph/internal/config"
	"github.com/astroworld-labs/murph/internal/debug"
	"github.com/astroworld-labs/murph/internal/pubsub"
	"github.com/astroworld-labs/murph/internal/session"
	"github.com/astroworld-labs/murph/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "murph",
		Short: "AstroWorld assistant in your terminal",
		Long: `Murph is the AstroWorld AI assistant client. It keeps your chat
sessions on disk, mirrors them against the AstroWorld backend, and gives
you quick access to your journals, saved content, and inbox.

Running murph with no arguments opens the chat interface.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "Config file to use instead of the standard locations")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newSessionsCmd())
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newJournalsCmd())
	cmd.AddCommand(newSavedCmd())
	cmd.AddCommand(newInboxCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, client, err := setup(cmd)
	if err != nil {
		return err
	}

	store := session.NewFileStore(cfg.SessionsPath())
	hub := pubsub.NewHub()
	defer hub.Shutdown()
	client.SetAuthEvents(hub.Auth)

	svc, err := session.NewService(store, client, hub.Session)
	if err != nil {
		return err
	}

	return tui.Run(cfg, svc, hub)
}

// setup loads the configuration, enables debug logging when requested, and
// builds the backend client. On the very first run the resolved config is
// written out so users have a file to edit.
func setup(cmd *cobra.Command) (*config.Config, *api.Client, error) {
	var cfg *config.Config
	var err error

	if path, flagErr := cmd.Flags().GetString("config"); flagErr == nil && path != "" {
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	} else {
		firstRun := config.IsFirstRun()
		cfg, err = config.Load()
		if err != nil {
			cfg = config.NewConfig()
		}
		if firstRun {
			if saveErr := config.Save(cfg); saveErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to write config: %v\n", saveErr)
			}
		}
	}

	debugMode, flagErr := cmd.Flags().GetBool("debug")
	if flagErr == nil && (debugMode || cfg.Options.Debug) {
		if debugErr := debug.Enable(cfg.DebugLogPath()); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", debugErr)
		} else {
			fmt.Fprintf(os.Stderr, "Debug: %s\n", debug.LogPath())
		}
	}

	return cfg, api.NewClient(cfg.APIBaseURL, cfg), nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
