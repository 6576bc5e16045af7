package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/chunking/internal/app"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/render"
	"github.com/spf13/cobra"
)

func newAskCmd(c *cli) *cobra.Command {
	var (
		topic string
		width int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask the planning assistant one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := app.NewGateway(c.cfg, c.logger)
			if err != nil {
				return err
			}

			conv := chat.NewConversation(uuid.NewString(), topic, gw, c.logger)
			entry, err := conv.Ask(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, chat.ErrEmptyMessage) {
				return fmt.Errorf("message is empty")
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, entry.Content)
			} else {
				fmt.Fprintln(out, render.Entry(entry, width))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "What the question is about, such as a project name")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for the rendered reply")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering")

	return cmd
}
