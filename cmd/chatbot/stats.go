package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// storeStats summarizes the side-data store.
type storeStats struct {
	DBPath   string  `json:"db_path"`
	DBSizeMB float64 `json:"db_size_mb"`
	Notes    int     `json:"notes"`
	Places   int     `json:"places"`
	Name     string  `json:"name,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show side-data store statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		notes, err := store.CountNotes(ctx)
		if err != nil {
			return err
		}
		places, err := store.ListPlaces(ctx)
		if err != nil {
			return err
		}
		name, err := store.Name(ctx)
		if err != nil {
			return err
		}
		st := storeStats{
			DBPath:   store.Path(),
			DBSizeMB: float64(store.Size()) / 1024 / 1024,
			Notes:    notes,
			Places:   len(places),
			Name:     name,
		}

		out := cmd.OutOrStdout()
		if jsonOut {
			data, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintf(out, "Database: %s (%.2f MB)\n", st.DBPath, st.DBSizeMB)
		fmt.Fprintf(out, "Notes:    %d\n", st.Notes)
		fmt.Fprintf(out, "Places:   %d\n", st.Places)
		if st.Name != "" {
			fmt.Fprintf(out, "Name:     %s\n", st.Name)
		}
		return nil
	},
}
