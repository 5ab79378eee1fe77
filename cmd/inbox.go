package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newInboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Read and send direct messages",
	}

	cmd.PersistentFlags().Bool("refresh", false, "Bypass the local cache")

	cmd.AddCommand(newInboxListCmd())
	cmd.AddCommand(newInboxShowCmd())
	cmd.AddCommand(newInboxWithCmd())
	cmd.AddCommand(newInboxSendCmd())

	return cmd
}

func newInboxListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List message threads",
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

			refresh, _ := cmd.Flags().GetBool("refresh")
			threads, err := cachedFetch(cmd.Context(), store, "/users/messages/threads/", refresh, client.ListThreads)
			if err != nil {
				return err
			}

			if len(threads) == 0 {
				fmt.Println("No messages.")
				return nil
			}
			for _, thread := range threads {
				unread := ""
				if thread.UnreadCount > 0 {
					unread = fmt.Sprintf(" (%d unread)", thread.UnreadCount)
				}
				preview := ""
				if thread.LastMessage != nil {
					preview = thread.LastMessage.Message
					if len(preview) > 60 {
						preview = preview[:60] + "..."
					}
				}
				fmt.Printf("%4d  %-20s%s\n", thread.ID, thread.OtherUser.Username, unread)
				if preview != "" {
					fmt.Printf("      %s\n", preview)
				}
			}
			return nil
		},
	}
}

func newInboxShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <thread-id>",
		Short: "Show a message thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid thread id %q", args[0])
			}

			// Opening a thread marks it read on the backend, so this
			// always goes to the network.
			thread, err := client.GetThreadMessages(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("Thread with %s\n\n", thread.Thread.OtherUser.Username)
			for _, msg := range thread.Messages {
				fmt.Printf("[%s] %s\n%s\n\n", msg.CreatedAt, msg.Sender.Username, msg.Message)
			}
			return nil
		},
	}
}

func newInboxWithCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "with <user-id>",
		Short: "Show the message history with a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return err
			}

			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			messages, err := client.GetMessagesWithUser(cmd.Context(), userID)
			if err != nil {
				return err
			}

			if len(messages) == 0 {
				fmt.Println("No messages.")
				return nil
			}
			for _, msg := range messages {
				fmt.Printf("[%s] %s\n%s\n\n", msg.CreatedAt, msg.Sender.Username, msg.Message)
			}
			return nil
		},
	}
}

func newInboxSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <user-id> <message>",
		Short: "Send a direct message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}

			recipientID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			msg, err := client.SendUserMessage(cmd.Context(), recipientID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			if store, closeCache, cacheErr := openCache(cfg); cacheErr == nil {
				store.Invalidate(cmd.Context(), "/users/messages/threads/")
				closeCache()
			}

			fmt.Printf("Sent to %s\n", msg.Recipient.Username)
			return nil
		},
	}
}
