// Package main provides the entry point for the offline audit tool. It
// verifies persisted bets by recomputing probability and stake from frozen
// snapshots, replays factor computation as of the match date, and reports
// per-tag performance over settled bets.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-edge/internal/analysis"
	"github.com/yourusername/court-edge/internal/audit"
	"github.com/yourusername/court-edge/internal/config"
	"github.com/yourusername/court-edge/internal/database"
	"github.com/yourusername/court-edge/internal/factors"
	"github.com/yourusername/court-edge/internal/logger"
	"github.com/yourusername/court-edge/internal/models"
	"github.com/yourusername/court-edge/internal/repository"
	"github.com/yourusername/court-edge/internal/staking"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		mode       = flag.String("mode", "verify", "Audit mode: verify, replay, performance")
		startDate  = flag.String("start-date", "", "Performance window start (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Performance window end (YYYY-MM-DD)")
		output     = flag.String("output", "", "Write the report to a file instead of stdout")
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

	evaluator, bets, err := buildEvaluator(cfg, db, log)
	if err != nil {
		log.Fatalf("Failed to build evaluator: %v", err)
	}

	var report interface{}
	switch *mode {
	case "verify":
		report, err = evaluator.VerifyActive(ctx)
	case "replay":
		report, err = replayActive(ctx, evaluator, bets)
	case "performance":
		report, err = runPerformance(ctx, evaluator, *startDate, *endDate)
	default:
		log.Fatalf("Unknown mode: %s", *mode)
	}
	if err != nil {
		log.Fatalf("Audit failed: %v", err)
	}

	writeReport(report, *output, log)
}

func replayActive(ctx context.Context, evaluator *audit.Evaluator, bets repository.BetRepository) ([]audit.Drift, error) {
	active, err := bets.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]audit.Drift, 0, len(active))
	for _, bet := range active {
		d, err := evaluator.ReplayBet(ctx, bet)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, nil
}

func runPerformance(ctx context.Context, evaluator *audit.Evaluator, startStr, endStr string) ([]audit.TagPerformance, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, -3, 0)

	var err error
	if startStr != "" {
		if start, err = time.Parse("2006-01-02", startStr); err != nil {
			return nil, err
		}
	}
	if endStr != "" {
		if end, err = time.Parse("2006-01-02", endStr); err != nil {
			return nil, err
		}
	}
	return evaluator.Performance(ctx, start, end)
}

func buildEvaluator(cfg *config.Config, db *database.DB, log *logrus.Logger) (*audit.Evaluator, repository.BetRepository, error) {
	repos, err := repository.NewRepositories(db)
	if err != nil {
		return nil, nil, err
	}

	profiles := make(map[string]models.WeightProfile, len(cfg.Profiles.Weights))
	for name, weights := range cfg.Profiles.Weights {
		profiles[name] = models.WeightProfile{
			Name:    name,
			Version: cfg.Profiles.Version,
			Weights: weights,
		}
	}

	evaluator := audit.NewEvaluator(
		factors.NewLibrary(factors.FromConfig(&cfg.Factors)),
		analysis.NewAggregator(analysis.FromConfig(&cfg.Analysis), log),
		staking.NewEngine(staking.FromConfig(&cfg.Staking), log),
		profiles,
		repos.Player,
		repos.Match,
		repos.Bet,
		log,
	)
	return evaluator, repos.Bet, nil
}

func writeReport(report interface{}, path string, log *logrus.Logger) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to serialize report: %v", err)
	}
	data = append(data, '\n')

	if path == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	log.WithField("path", path).Info("Report written")
}
