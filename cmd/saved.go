package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astroworld-labs/murph/internal/api"
)

func newSavedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage your saved AstroWorld content",
	}

	cmd.PersistentFlags().Bool("refresh", false, "Bypass the local cache")

	cmd.AddCommand(newSavedListCmd())
	cmd.AddCommand(newSavedAddCmd())
	cmd.AddCommand(newSavedFavoriteCmd())
	cmd.AddCommand(newSavedDeleteCmd())

	return cmd
}

func invalidateSavedCache(cmd *cobra.Command) {
	cfg, _, err := setup(cmd)
	if err != nil {
		return
	}
	if store, closeCache, cacheErr := openCache(cfg); cacheErr == nil {
		store.Invalidate(cmd.Context(), "/users/content/", "/users/content/favorites/")
		closeCache()
	}
}

func newSavedListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved content",
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

			favorites, err := cmd.Flags().GetBool("favorites")
			if err != nil {
				return err
			}
			refresh, _ := cmd.Flags().GetBool("refresh")

			key := "/users/content/"
			fetch := client.ListContent
			if favorites {
				key = "/users/content/favorites/"
				fetch = client.ListFavorites
			}

			items, err := cachedFetch(cmd.Context(), store, key, refresh, fetch)
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Println("Nothing saved yet.")
				return nil
			}
			for _, item := range items {
				star := " "
				if item.IsFavorite {
					star = "★"
				}
				fmt.Printf("%4d %s %-14s  %s\n", item.ID, star, item.ContentType, item.Title)
				if len(item.Tags) > 0 {
					fmt.Printf("       tags: %s\n", strings.Join(item.Tags, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("favorites", false, "Show only favorites")
	return cmd
}

func newSavedAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <content-type> <content-id> <title>",
		Short: "Save a content item",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return err
			}

			notes, _ := cmd.Flags().GetString("notes")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			favorite, _ := cmd.Flags().GetBool("favorite")

			item, err := client.SaveContent(cmd.Context(), api.SaveContentData{
				ContentType: api.ContentType(args[0]),
				ContentID:   args[1],
				Title:       strings.Join(args[2:], " "),
				Notes:       notes,
				Tags:        tags,
				IsFavorite:  favorite,
			})
			if err != nil {
				return err
			}

			invalidateSavedCache(cmd)
			fmt.Printf("Saved %s as item %d\n", item.Title, item.ID)
			return nil
		},
	}
	cmd.Flags().String("notes", "", "Personal notes on the item")
	cmd.Flags().StringSlice("tags", nil, "Comma-separated tags")
	cmd.Flags().Bool("favorite", false, "Mark as favorite")
	return cmd
}

func newSavedFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle an item's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid content id %q", args[0])
			}

			item, err := client.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}

			invalidateSavedCache(cmd)
			if item.IsFavorite {
				fmt.Printf("Favorited %q\n", item.Title)
			} else {
				fmt.Printf("Unfavorited %q\n", item.Title)
			}
			return nil
		},
	}
}

func newSavedDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a saved item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid content id %q", args[0])
			}

			if err := client.DeleteContent(cmd.Context(), id); err != nil {
				return err
			}

			invalidateSavedCache(cmd)
			fmt.Printf("Removed item %d\n", id)
			return nil
		},
	}
}
