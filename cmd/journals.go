package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astroworld-labs/murph/internal/api"
	"github.com/astroworld-labs/murph/internal/cache"
	"github.com/astroworld-labs/murph/internal/config"
	"github.com/astroworld-labs/murph/internal/db"
)

// openCache opens the on-disk response cache. The returned closer must be
// called when the command is done.
func openCache(cfg *config.Config) (*cache.Cache, func(), error) {
	database, err := db.Open(cfg.CachePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}
	return cache.New(database), func() { database.Close() }, nil
}

// cachedFetch returns the cached payload for key when fresh, otherwise
// fetches from the backend and caches the result. When the backend is
// unreachable the last cached payload is served, however old; a failure
// with nothing cached surfaces as the fetch error.
func cachedFetch[T any](ctx context.Context, c *cache.Cache, key string, refresh bool, fetch func(context.Context) (T, error)) (T, error) {
	var out T
	if !refresh && c.Get(ctx, key, &out) == nil {
		return out, nil
	}

	out, err := fetch(ctx)
	if err != nil {
		var stale T
		if c.GetStale(ctx, key, &stale) == nil {
			fmt.Fprintf(os.Stderr, "Warning: backend unreachable, showing cached data: %v\n", err)
			return stale, nil
		}
		return out, err
	}
	if err := c.Put(ctx, key, out); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: caching %s failed: %v\n", key, err)
	}
	return out, nil
}

func newJournalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journals",
		Short: "Manage your AstroWorld journals",
	}

	cmd.PersistentFlags().Bool("refresh", false, "Bypass the local cache")

	cmd.AddCommand(newJournalsListCmd())
	cmd.AddCommand(newJournalsAddCmd())
	cmd.AddCommand(newJournalsDeleteCmd())

	return cmd
}

func newJournalsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}
			store, closeCache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			observations, err := cmd.Flags().GetBool("observations")
			if err != nil {
				return err
			}
			refresh, _ := cmd.Flags().GetBool("refresh")

			key := "/users/journals/"
			fetch := client.ListJournals
			if observations {
				key = "/users/journals/?journal_type=observation"
				fetch = client.ListObservations
			}

			journals, err := cachedFetch(cmd.Context(), store, key, refresh, fetch)
			if err != nil {
				return err
			}

			if len(journals) == 0 {
				fmt.Println("No journal entries.")
				return nil
			}
			for _, j := range journals {
				visibility := "private"
				if j.IsPublic {
					visibility = "public"
				}
				fmt.Printf("%4d  %-15s  %-40s  %s\n", j.ID, j.JournalType, j.Title, visibility)
			}
			return nil
		},
	}
	cmd.Flags().Bool("observations", false, "Show only observation entries")
	return cmd
}

func newJournalsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}

			content, err := cmd.Flags().GetString("content")
			if err != nil {
				return err
			}
			journalType, _ := cmd.Flags().GetString("type")
			public, _ := cmd.Flags().GetBool("public")
			ra, _ := cmd.Flags().GetString("ra")
			dec, _ := cmd.Flags().GetString("dec")

			data := api.CreateJournalData{
				JournalType: api.JournalType(journalType),
				Title:       strings.Join(args, " "),
				Content:     content,
				IsPublic:    public,
			}
			if ra != "" || dec != "" {
				data.Coordinates = &api.Coordinates{RA: ra, Dec: dec}
			}

			journal, err := client.CreateJournal(cmd.Context(), data)
			if err != nil {
				return err
			}

			// The list cache is stale now.
			if store, closeCache, cacheErr := openCache(cfg); cacheErr == nil {
				store.Invalidate(cmd.Context(), "/users/journals/", "/users/journals/?journal_type=observation")
				closeCache()
			}

			fmt.Printf("Created journal entry %d\n", journal.ID)
			return nil
		},
	}
	cmd.Flags().String("content", "", "Entry body text")
	cmd.Flags().String("type", string(api.JournalNote), "Entry type (note, observation, ai_conversation, discovery)")
	cmd.Flags().Bool("public", false, "Make the entry publicly visible")
	cmd.Flags().String("ra", "", "Right ascension of the observed target")
	cmd.Flags().String("dec", "", "Declination of the observed target")
	return cmd
}

func newJournalsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid journal id %q", args[0])
			}

			if err := client.DeleteJournal(cmd.Context(), id); err != nil {
				return err
			}

			if store, closeCache, cacheErr := openCache(cfg); cacheErr == nil {
				store.Invalidate(cmd.Context(), "/users/journals/", "/users/journals/?journal_type=observation")
				closeCache()
			}

			fmt.Printf("Deleted journal entry %d\n", id)
			return nil
		},
	}
}
