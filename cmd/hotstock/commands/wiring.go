package commands

import (
	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/internal/finder"
	"github.com/wonny/hotstock/backend/internal/market"
	"github.com/wonny/hotstock/backend/internal/notify"
	"github.com/wonny/hotstock/backend/internal/recommend"
	"github.com/wonny/hotstock/backend/internal/report"
	"github.com/wonny/hotstock/backend/internal/store"
	"github.com/wonny/hotstock/backend/internal/trend"
	"github.com/wonny/hotstock/backend/pkg/cache"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/database"
	"github.com/wonny/hotstock/backend/pkg/httputil"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// app bundles the wired components shared by the CLI commands
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	gateway  contracts.MarketDataGateway
	finder   *finder.Finder
	pipeline *recommend.Pipeline
	repo     *store.Repository
	renderer *report.Renderer
	notifier *notify.WebhookNotifier
}

// buildApp loads configuration and wires the recommendation pipeline.
// The database is optional: without DATABASE_URL runs are not persisted.
func buildApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Market data gateway with ranking cache
	httpClient := httputil.New(log, cfg.Market.Timeout)
	if cfg.Market.RatePerSecond > 0 {
		httpClient = httpClient.WithRateLimit(cfg.Market.RatePerSecond, 1)
	}
	client := market.NewClient(cfg, httpClient, log)

	var cacheStore cache.Store
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedis(cfg, "hotstock")
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, falling back to in-memory cache")
			cacheStore = cache.NewMemory()
		} else {
			cacheStore = redisStore
		}
	} else {
		cacheStore = cache.NewMemory()
	}
	gateway := market.NewCachedGateway(client, cacheStore, cfg.HotStock.CacheTTL, log)

	// 4. Pipeline stages
	hsFinder := finder.NewFinder(gateway, cfg.HotStock, log)
	enricher := recommend.NewEnricher(gateway, trend.NewAnalyzer(log), cfg.HotStock, log)
	scorer := recommend.NewScorer(cfg.HotStock.Weight, log)
	selector := recommend.NewSelector(cfg.HotStock, log)
	pipeline := recommend.NewPipeline(hsFinder, enricher, scorer, selector, log)

	// 5. Optional persistence
	var db *database.DB
	var repo *store.Repository
	if cfg.Database.URL != "" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, err
		}
		repo = store.NewRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Info("DATABASE_URL not set, runs will not be persisted")
	}

	// 6. Report + notification
	notifier := notify.NewWebhookNotifier(cfg.WebhookURL, httpClient, log)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		gateway:  gateway,
		finder:   hsFinder,
		pipeline: pipeline,
		repo:     repo,
		renderer: report.NewRenderer(),
		notifier: notifier,
	}, nil
}

// Close releases held resources
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
