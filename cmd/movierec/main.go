package main

import (
	"github.com/joho/godotenv"

	"movierec/internal/catalog"
	"movierec/internal/discovery"
	"movierec/internal/enrich"
	"movierec/internal/gateway"
	"movierec/internal/history"
	"movierec/internal/logger"
	"movierec/internal/profile"
	"movierec/internal/recommend"
	"movierec/internal/scoring"
	"movierec/internal/server"
	"movierec/internal/similarity"
	"movierec/pkg/embedding"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := InitServerConfig()
	logger.SetDebug(cfg.Server.Debug)

	if cfg.Catalog.APIKey == "" {
		logger.Fatal("catalog API key is not configured (set TMDB_API_KEY or catalog.api_key)")
	}

	provider, err := profile.NewStaticProvider(cfg.Paths.Profiles)
	if err != nil {
		logger.Fatal("failed to init profile provider: %v", err)
	}

	historyStore, err := history.NewFileStore(cfg.Paths.History)
	if err != nil {
		logger.Fatal("failed to init history store: %v", err)
	}

	gw := gateway.New(gateway.Config{
		MaxConcurrent:  cfg.Catalog.MaxConcurrent,
		CacheTTL:       cfg.CacheTTL(),
		CacheCapacity:  cfg.Catalog.CacheCapacity,
		RequestTimeout: cfg.RequestTimeout(),
		RatePerSecond:  cfg.Catalog.RequestsPerSec,
	})
	catalogClient := catalog.NewClient(gw, cfg.Catalog.BaseURL, cfg.Catalog.APIKey)

	var scorer similarity.Scorer = similarity.NewKeywordScorer()
	if cfg.Embedding.Enabled && cfg.Embedding.Endpoint != "" {
		logger.Info("embedding backend enabled: %s", cfg.Embedding.Endpoint)
		scorer = similarity.NewEmbeddingScorer(embedding.NewHTTPClient(cfg.Embedding.Endpoint, cfg.Embedding.APIKey))
	}

	pipeline := recommend.NewPipeline(
		discovery.NewEngine(catalogClient),
		enrich.NewStage(catalogClient),
		scoring.NewEngine(scorer),
	)

	srv := server.NewServer(provider, pipeline, historyStore)
	logger.Info("starting HTTP server on port %s", cfg.Server.Port)
	if err := srv.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server failed: %v", err)
	}
}
