package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send a single prompt to the assistant",
		Long: `Send a prompt within the active session and print the reply.
The exchange is stored in the session transcript, so a later 'murph'
run picks up the conversation where ask left it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := sessionService(cmd)
			if err != nil {
				return err
			}

			sess, err := svc.Send(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			reply := sess.Messages[len(sess.Messages)-1]
			fmt.Println(reply.Content)
			return nil
		},
	}
}
