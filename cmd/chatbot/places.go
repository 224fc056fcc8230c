package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/memory"
)

var placesCmd = &cobra.Command{
	Use:   "places [query]",
	Short: "List known places, or look one up",
	Args:  cobra.ArbitraryArgs,
	Long: `Without arguments, lists every country in the timezone table. With a query,
resolves it the way the time handler does: country code or name first, then a
known city.

Example:
  chatbot places
  chatbot places "new york"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var places []memory.Place
		if len(args) == 0 {
			if places, err = store.ListPlaces(cmd.Context()); err != nil {
				return err
			}
		} else {
			query := strings.Join(args, " ")
			p, err := store.FindPlace(cmd.Context(), query)
			if err != nil {
				return err
			}
			if p == nil {
				return apperrors.NewBuilder(apperrors.CodeValidationFailed, "place not found: "+query).
					User().
					WithSuggestion("Run `chatbot places` to list countries").
					Build()
			}
			places = []memory.Place{*p}
		}
		return printPlaces(cmd, places)
	},
}

var addCityCmd = &cobra.Command{
	Use:   "add-city [country-code] [city]",
	Short: "Teach the time handler a city",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		city := strings.Join(args[1:], " ")
		if err := store.AddCity(cmd.Context(), args[0], city); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s\n", strings.ToLower(city), strings.ToUpper(args[0]))
		return nil
	},
}

func printPlaces(cmd *cobra.Command, places []memory.Place) error {
	out := cmd.OutOrStdout()
	if jsonOut {
		data, err := json.MarshalIndent(places, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tZONES\tCITIES")
	for _, p := range places {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Code, p.Name, strings.Join(p.Zones, " "), strings.Join(p.Cities, ", "))
	}
	return w.Flush()
}

func init() {
	placesCmd.AddCommand(addCityCmd)
}
