package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flynn-ai/chatbot/internal/chatbot"
	"github.com/flynn-ai/chatbot/internal/config"
	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/logging"
	"github.com/flynn-ai/chatbot/internal/memory"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	jsonOut bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chatbot",
	Short: "A small intent-classification chatbot",
	Long: `chatbot classifies each message into an intent, keeps a one-slot dialogue
context between turns and answers with a canned reply or a handler: the time
somewhere, a joke, a word definition, notes and your name.

Run without arguments to start a conversation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read .env: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chatbot/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log turn details to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print replies and listings as JSON")

	rootCmd.AddCommand(chatCmd, askCmd, notesCmd, placesCmd, configCmd, statsCmd, catalogCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.FormatUserMessage(err))
		os.Exit(1)
	}
}

func openSession(ctx context.Context) (*chatbot.Session, error) {
	return chatbot.Open(ctx, cfg, logger)
}

func openStore() (*memory.Store, error) {
	return memory.Open(cfg.Paths.Database)
}
