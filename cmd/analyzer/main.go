// Package main provides the entry point for the match analyzer.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-edge/internal/analysis"
	"github.com/yourusername/court-edge/internal/classifier"
	"github.com/yourusername/court-edge/internal/config"
	"github.com/yourusername/court-edge/internal/database"
	"github.com/yourusername/court-edge/internal/datasource"
	"github.com/yourusername/court-edge/internal/factors"
	"github.com/yourusername/court-edge/internal/logger"
	"github.com/yourusername/court-edge/internal/metrics"
	"github.com/yourusername/court-edge/internal/models"
	"github.com/yourusername/court-edge/internal/repository"
	"github.com/yourusername/court-edge/internal/scheduler"
	"github.com/yourusername/court-edge/internal/service"
	"github.com/yourusername/court-edge/internal/staking"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		once       = flag.Bool("once", false, "Run a single batch analysis and exit")
		asOfFlag   = flag.String("as-of", "", "Override as-of date (RFC3339), defaults to now")
	)
	flag.Parse()

	cfg, err := config.LoadValidated(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.NewLogger(cfg.App.LogLevel)
	ctx := context.Background()

	db, err := database.NewDB(ctx, database.Config{
		DSN:            cfg.GetDatabaseDSN(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	analyzer, err := buildAnalyzer(cfg, db, log)
	if err != nil {
		log.Fatalf("Failed to build analyzer: %v", err)
	}

	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
		log.WithField("port", cfg.Metrics.Port).Info("Metrics server started")
	}

	asOf := time.Now().UTC()
	if *asOfFlag != "" {
		asOf, err = time.Parse(time.RFC3339, *asOfFlag)
		if err != nil {
			log.Fatalf("Invalid as-of date: %v", err)
		}
	}

	if *once || !cfg.Scheduler.Enabled {
		placed, err := analyzer.AnalyzeBatch(ctx, asOf)
		if err != nil {
			log.Fatalf("Batch analysis failed: %v", err)
		}
		log.WithField("bets_placed", placed).Info("Batch analysis completed")
		return
	}

	runScheduled(analyzer, cfg, log)
}

func runScheduled(analyzer *service.Analyzer, cfg *config.Config, log *logrus.Logger) {
	sched := scheduler.NewScheduler(analyzer, log)
	if err := sched.ScheduleSlateAnalysis(cfg.Scheduler.SlateSchedule); err != nil {
		log.Fatalf("Failed to schedule slate analysis: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := sched.Stop(); err != nil {
		log.Errorf("Failed to stop scheduler: %v", err)
	}
}

func buildAnalyzer(cfg *config.Config, db *database.DB, log *logrus.Logger) (*service.Analyzer, error) {
	repos, err := repository.NewRepositories(db)
	if err != nil {
		return nil, err
	}

	profile, err := activeProfile(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.DataSource.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.DataSource.RetryMax,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         cfg.DataSource.RequestsPerSecond,
		Burst:             cfg.DataSource.Burst,
		CircuitBreakerMax: 5,
	}, log)

	return service.NewAnalyzer(service.Deps{
		Library:        factors.NewLibrary(factors.FromConfig(&cfg.Factors)),
		Aggregator:     analysis.NewAggregator(analysis.FromConfig(&cfg.Analysis), log),
		Engine:         staking.NewEngine(staking.FromConfig(&cfg.Staking), log),
		Classifier:     classifier.New(classifier.FromConfig(&cfg.Classifier)),
		Profile:        profile,
		ProfileVersion: cfg.Profiles.Version,
		Matches:        repos.Match,
		Bets:           repos.Bet,
		History:        datasource.NewHTTPHistorySource(cfg.DataSource.HistoryURL, cfg.DataSource.HistoryAPIKey, httpClient, log),
		Odds:           datasource.NewHTTPOddsSource(cfg.DataSource.OddsURL, httpClient, log),
		Cache:          service.NewSnapshotCache(time.Duration(cfg.DataSource.CacheTTLSeconds) * time.Second),
		Logger:         log,
		MaxConcurrency: cfg.Scheduler.MaxConcurrency,
	})
}

func activeProfile(cfg *config.Config) (models.WeightProfile, error) {
	weights, err := cfg.ActiveWeights()
	if err != nil {
		return models.WeightProfile{}, err
	}
	return models.WeightProfile{
		Name:    cfg.Profiles.Active,
		Version: cfg.Profiles.Version,
		Weights: weights,
	}, nil
}
