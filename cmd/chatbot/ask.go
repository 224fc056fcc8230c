package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flynn-ai/chatbot/internal/render"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer a single message",
	Long: `Runs one message through the engine and prints the reply. The dialogue
context starts empty, so context-dependent intents fall back to their plain form.

Example:
  chatbot ask "what time is it in japan"
  chatbot ask --json "define serendipity"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer session.Close()

		turn := session.Respond(cmd.Context(), strings.Join(args, " "))
		out := cmd.OutOrStdout()
		if jsonOut {
			data, err := json.MarshalIndent(turn, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		if !turn.Silent() {
			fmt.Fprintln(out, render.New(cardWidth).Reply(turn.Reply))
		}
		return nil
	},
}
