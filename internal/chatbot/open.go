package chatbot

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/flynn-ai/chatbot/internal/classifier"
	"github.com/flynn-ai/chatbot/internal/config"
	"github.com/flynn-ai/chatbot/internal/intent"
	"github.com/flynn-ai/chatbot/internal/logging"
	"github.com/flynn-ai/chatbot/internal/memory"
	"github.com/flynn-ai/chatbot/internal/remote"
	"github.com/flynn-ai/chatbot/internal/stats"
)

// LoadCatalog returns the configured catalog, or the embedded one when no
// path is set.
func LoadCatalog(cfg *config.Config) (*intent.Catalog, error) {
	if cfg.Paths.Catalog == "" {
		return intent.Default()
	}
	return intent.Load(cfg.Paths.Catalog)
}

// Open builds a session from configuration: the side-data store, the
// catalog, the scorer and the remote clients. The caller closes the
// session.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	logger = logging.OrNop(logger)

	catalog, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	var model *classifier.Model
	if cfg.Paths.Model != "" {
		if model, err = classifier.LoadModel(cfg.Paths.Model); err != nil {
			return nil, err
		}
	}

	jokes, err := remote.NewJokeClient(remote.JokeConfig{
		URL:     cfg.Remote.JokeURL,
		Timeout: cfg.Remote.JokeTimeout.Duration,
		Proxy:   cfg.Remote.Proxy,
		Logger:  logger.Named("joke"),
	})
	if err != nil {
		return nil, err
	}
	dictionary, err := remote.NewDictionaryClient(remote.DictionaryConfig{
		BaseURL: cfg.Remote.DictionaryURL,
		Timeout: cfg.Remote.DictionaryTimeout.Duration,
		Proxy:   cfg.Remote.Proxy,
		Logger:  logger.Named("dictionary"),
	})
	if err != nil {
		return nil, err
	}

	store, err := memory.Open(cfg.Paths.Database)
	if err != nil {
		return nil, err
	}
	legacy := filepath.Join(cfg.Paths.DataDir, memory.LegacyNameFile)
	if imported, err := store.ImportLegacyName(ctx, legacy); err != nil {
		logger.Warn("legacy name import failed", zap.String("path", legacy), zap.Error(err))
	} else if imported {
		logger.Info("imported legacy name", zap.String("path", legacy))
	}

	s, err := New(Options{
		Engine:     cfg.Engine,
		Catalog:    catalog,
		Model:      model,
		Store:      store,
		Jokes:      jokes,
		Dictionary: dictionary,
		Location:   cfg.Location(),
		Stats:      stats.NewCollector(),
		Logger:     logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}
