package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/chunking/internal/render"
	"github.com/spf13/cobra"
)

func newNoteCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), render.Notes(a.Session.Notes()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			saved, ok := a.Session.SaveNote(cmd.Context(), strings.Join(args, " "), 0)
			if !ok {
				return fmt.Errorf("note text is empty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", saved.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace the text of a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.Session.BeginEditNote(id); !ok {
				return fmt.Errorf("note %d not found", id)
			}
			saved, ok := a.Session.SaveNote(cmd.Context(), strings.Join(args[1:], " "), id)
			if !ok {
				a.Session.CancelEditNote()
				return fmt.Errorf("note text is empty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d\n", saved.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.Session.DeleteNote(cmd.Context(), id) {
				return fmt.Errorf("note %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			return nil
		},
	})

	return cmd
}

func parseNoteID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}
