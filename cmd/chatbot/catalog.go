package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flynn-ai/chatbot/internal/chatbot"
	"github.com/flynn-ai/chatbot/internal/handler"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the intent catalog",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured catalog and summarize it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := chatbot.LoadCatalog(cfg)
		if err != nil {
			return err
		}

		used := make(map[handler.ID]bool)
		patterns := 0
		for _, d := range catalog.Definitions() {
			if d.HasHandler() {
				used[d.Handler] = true
			}
			patterns += len(d.Patterns)
		}
		var unused []string
		for _, id := range handler.All() {
			if !used[id] {
				unused = append(unused, string(id))
			}
		}

		source := cfg.Paths.Catalog
		if source == "" {
			source = "embedded"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Catalog:  %s\n", source)
		fmt.Fprintf(out, "Entries:  %d (%d intents, %d patterns)\n", catalog.Len(), len(catalog.Labels()), patterns)
		if len(unused) > 0 {
			slices.Sort(unused)
			fmt.Fprintf(out, "Unused handlers: %s\n", strings.Join(unused, ", "))
		}
		return nil
	},
}

var catalogDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the configured catalog as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := chatbot.LoadCatalog(cfg)
		if err != nil {
			return err
		}
		data, err := catalog.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd, catalogDumpCmd)
}
