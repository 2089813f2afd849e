package main

import (
	"context"
	"net/http"

	"github.com/okian/screener/internal/adapters/extract"
	"github.com/okian/screener/internal/adapters/http/api"
	"github.com/okian/screener/internal/adapters/http/site"
	"github.com/okian/screener/internal/adapters/http/swagger"
	"github.com/okian/screener/internal/adapters/repository"
	service "github.com/okian/screener/internal/app"
	"github.com/okian/screener/internal/config"
	"github.com/okian/screener/internal/domain/analytics"
	"github.com/okian/screener/internal/domain/nlp"
	"github.com/okian/screener/internal/domain/scoring"
	"github.com/okian/screener/pkg/logger"
)

// newService builds the ranking service from cfg. The returned func
// releases the session store when the service does not own it.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, func(), error) {
	store, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	trendWeights := []map[string]float64{cfg.TrendWeights}
	if cfg.TrendWeightsFile != "" {
		fromFile, err := scoring.LoadTrendWeightsFile(cfg.TrendWeightsFile)
		if err != nil {
			log.Warn(ctx, "ignoring trend weights file", logger.String("path", cfg.TrendWeightsFile), logger.Error(err))
		} else {
			trendWeights = append(trendWeights, fromFile)
		}
	}

	var taxonomy []string
	if cfg.SkillTaxonomyFile != "" {
		taxonomy, err = nlp.LoadTaxonomyFile(cfg.SkillTaxonomyFile)
		if err != nil {
			log.Warn(ctx, "ignoring skill taxonomy file", logger.String("path", cfg.SkillTaxonomyFile), logger.Error(err))
			taxonomy = nil
		}
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithMaxBatch(cfg.MaxBatch),
		service.WithMaxTextLength(cfg.MaxTextLength),
		service.WithPayloadTextCap(cfg.PayloadTextCap),
		service.WithDisparateImpactThreshold(cfg.DisparateImpactThreshold),
		service.WithStore(store),
		service.WithExtractor(extract.New(extract.WithTimeout(cfg.ExtractTimeout()))),
		service.WithProfileExtractor(nlp.NewHeuristic(taxonomy)),
		service.WithScorer(scoring.NewEngine(
			scoring.WithTrendWeights(trendWeights...),
			scoring.WithMaxFeatures(cfg.MaxFeatures),
			scoring.WithLogger(log),
		)),
		service.WithCohortAnalyzer(analytics.New(
			analytics.WithMaxFeatures(cfg.MaxFeatures),
			analytics.WithLogger(log),
		)),
	)
	return svc, closeStore, nil
}

// newStore selects the session backend.
func newStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		client, err := repository.DialRedis(ctx, repository.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewRedisStore(client, repository.WithRedisTTL(cfg.SessionTTL()))
		log.Info(ctx, "using redis session store", logger.String("addr", cfg.RedisAddr))
		return store, func() { _ = store.Close() }, nil
	default:
		store := repository.NewMemoryStore(ctx,
			repository.WithTTL(cfg.SessionTTL()),
			repository.WithMaxEntries(cfg.SessionMaxEntries),
		)
		return store, func() { _ = store.Close() }, nil
	}
}

// newHandler registers every route and wraps the mux with request logging.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc,
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithLogger(log.Named("api")),
	).Register(ctx, mux)
	return api.LoggingMiddleware(mux, log.Named("http"))
}
