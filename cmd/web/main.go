package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/lville-gis/internal/config"
	"github.com/lville-gis/internal/lexicon"
	"github.com/lville-gis/internal/web"
)

func main() {
	// Load environment configuration
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	path := config.LexiconPath()
	lex, err := lexicon.Load(path)
	if err != nil {
		logger.Fatal("failed to load lexicon", zap.String("path", path), zap.Error(err))
	}

	webConfig := web.ConfigFromEnv()

	server, err := web.NewServer(webConfig, lex, logger)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	logger.Info("address service",
		zap.String("host", webConfig.Server.Host),
		zap.Int("port", webConfig.Server.Port),
		zap.String("lexicon", path),
		zap.Bool("batch", webConfig.Features.BatchEnabled))

	// Start server
	if err := server.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
