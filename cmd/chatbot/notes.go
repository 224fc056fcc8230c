package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/handler"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List, add and delete notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in creation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		notes, err := store.ListNotes(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOut {
			data, err := json.MarshalIndent(notes, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		if len(notes) == 0 {
			fmt.Fprintln(out, "No notes.")
			return nil
		}

		loc := cfg.Location()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tTITLE\tDESCRIPTION")
		for _, n := range notes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, n.CreatedAt.In(loc).Format(handler.NoteDateLayout), n.Title, n.Description)
		}
		return w.Flush()
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add [title] [description]",
	Short: "Add a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		note, err := store.CreateNote(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", note.ID, note.CreatedAt.In(cfg.Location()).Format(time.RFC3339))
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		note, err := store.GetNote(ctx, args[0])
		if err != nil {
			return err
		}
		if note == nil {
			return apperrors.NewBuilder(apperrors.CodeValidationFailed, "no note with id "+args[0]).
				User().
				WithSuggestion("Run `chatbot notes list` to see note ids").
				Build()
		}
		if _, err := store.DeleteNote(ctx, note.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%s)\n", note.Title, note.ID)
		return nil
	},
}

func init() {
	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesDeleteCmd)
}
