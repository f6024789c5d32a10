// Package service orchestrates the analysis pipeline: factor snapshot,
// probability aggregation, market comparison, stake sizing, tagging and
// the conflict-guarded ledger write. Analysis itself is pure and
// parallelizable; only the ledger write serializes.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/court-edge/internal/analysis"
	"github.com/yourusername/court-edge/internal/classifier"
	"github.com/yourusername/court-edge/internal/datasource"
	"github.com/yourusername/court-edge/internal/factors"
	"github.com/yourusername/court-edge/internal/ledger"
	"github.com/yourusername/court-edge/internal/logger"
	"github.com/yourusername/court-edge/internal/metrics"
	"github.com/yourusername/court-edge/internal/models"
	"github.com/yourusername/court-edge/internal/repository"
	"github.com/yourusername/court-edge/internal/staking"
)

// Deps collects the analyzer's collaborators
type Deps struct {
	Library    *factors.Library
	Aggregator *analysis.Aggregator
	Engine     *staking.Engine
	Classifier *classifier.Classifier
	Profile    models.WeightProfile
	Matches    repository.MatchRepository
	Bets       repository.BetRepository
	History    datasource.HistoricalDataSource
	Odds       datasource.OddsSource
	Cache      *SnapshotCache
	Logger     *logrus.Logger

	// ProfileVersion stamps every result and placed bet so the offline
	// audit can recompute against the exact profile used.
	ProfileVersion string

	// MaxConcurrency bounds the batch fan-out. Zero means 4.
	MaxConcurrency int
}

// Analyzer runs the full pipeline for match-pairs
type Analyzer struct {
	library        *factors.Library
	aggregator     *analysis.Aggregator
	engine         *staking.Engine
	classifier     *classifier.Classifier
	profile        models.WeightProfile
	profileVersion string
	matches        repository.MatchRepository
	bets           repository.BetRepository
	history        datasource.HistoricalDataSource
	odds           datasource.OddsSource
	cache          *SnapshotCache
	guard          *ledger.Guard
	maxConcurrency int
	log            *logger.AnalysisLogger
	audit          *logger.AuditLogger
}

// NewAnalyzer creates an analyzer. The weight profile is validated here so
// a bad profile fails construction, not the first analysis.
func NewAnalyzer(deps Deps) (*Analyzer, error) {
	if err := deps.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	maxConcurrency := deps.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Analyzer{
		library:        deps.Library,
		aggregator:     deps.Aggregator,
		engine:         deps.Engine,
		classifier:     deps.Classifier,
		profile:        deps.Profile,
		profileVersion: deps.ProfileVersion,
		matches:        deps.Matches,
		bets:           deps.Bets,
		history:        deps.History,
		odds:           deps.Odds,
		cache:          deps.Cache,
		guard:          ledger.NewGuard(),
		maxConcurrency: maxConcurrency,
		log:            logger.NewAnalysisLogger(deps.Logger),
		audit:          logger.NewAuditLogger(deps.Logger),
	}, nil
}

// AnalyzeMatch runs factor computation, aggregation and the market
// comparison for one pair at the given as-of date. The as-of date is the
// temporal cut: no match dated on or after it can influence the result.
func (a *Analyzer) AnalyzeMatch(ctx context.Context, pair datasource.MatchPair, prices *datasource.MarketPrices, asOf time.Time) (*models.AnalysisResult, error) {
	start := time.Now()

	snap, err := a.snapshot(ctx, pair, asOf)
	if err != nil {
		return nil, err
	}

	probs, err := a.aggregator.Aggregate(snap, a.profile)
	if err != nil {
		return nil, fmt.Errorf("analyze %s/%s: %w", pair.Key.Tournament, pair.Key.MatchID, err)
	}

	impliedA, err := analysis.ImpliedProbability(prices.OddsA)
	if err != nil {
		return nil, fmt.Errorf("analyze %s/%s side A: %w", pair.Key.Tournament, pair.Key.MatchID, err)
	}
	impliedB, err := analysis.ImpliedProbability(prices.OddsB)
	if err != nil {
		return nil, fmt.Errorf("analyze %s/%s side B: %w", pair.Key.Tournament, pair.Key.MatchID, err)
	}

	finalA := a.aggregator.Blend(probs.Calibrated, impliedA)
	finalB := a.aggregator.Blend(1-probs.Calibrated, impliedB)

	sideA, err := analysis.EvaluateSide(pair.PlayerA.ID, finalA, prices.OddsA)
	if err != nil {
		return nil, err
	}
	sideB, err := analysis.EvaluateSide(pair.PlayerB.ID, finalB, prices.OddsB)
	if err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		Key:            pair.Key,
		AsOfDate:       asOf,
		ProfileName:    a.profile.Name,
		ProfileVersion: a.profileVersion,
		Snapshot:       snap,
		Confidence:     a.aggregator.Confidence(snap, a.profile),
		RawProbability: probs.Raw,
		A:              sideA,
		B:              sideB,
		AnalyzedAt:     time.Now().UTC(),
	}

	elapsed := time.Since(start)
	metrics.AnalysesTotal.Inc()
	metrics.AnalysisDuration.Observe(elapsed.Seconds())
	a.log.LogAnalysis(pair.Key.Tournament, pair.Key.MatchID,
		finalA, finalB, result.Confidence, result.BestSide().Edge, float64(elapsed.Milliseconds()))

	return result, nil
}

// snapshot returns the factor snapshot for the pair, from cache when
// available
func (a *Analyzer) snapshot(ctx context.Context, pair datasource.MatchPair, asOf time.Time) (models.FactorSnapshot, error) {
	if a.cache != nil {
		if snap, ok := a.cache.Get(pair.Key, asOf, a.profile.Name, a.profileVersion); ok {
			return snap, nil
		}
	}

	matches, err := a.matches.GetByPlayersBefore(ctx, pair.PlayerA.ID, pair.PlayerB.ID, asOf)
	if err != nil {
		return models.FactorSnapshot{}, fmt.Errorf("failed to load match history: %w", err)
	}

	snap := a.library.Snapshot(pair.PlayerA, pair.PlayerB, pair.Surface, asOf, matches)
	if !snap.HasDataA && !snap.HasDataB {
		metrics.InsufficientDataTotal.Inc()
		a.log.LogInsufficientData(pair.Key.Tournament, pair.Key.MatchID, snap.SampleA, snap.SampleB)
	}

	if a.cache != nil {
		a.cache.Set(pair.Key, asOf, a.profile.Name, a.profileVersion, snap)
	}
	return snap, nil
}

// Recommend sizes and tags the best side of an analysis result. The fade
// rule may add a second entry on the opponent, or replace the primary one,
// depending on configuration. Fade entries bypass Kelly (the model
// disfavors them by construction) and are placed flat at the minimum unit.
func (a *Analyzer) Recommend(result *models.AnalysisResult) []*models.StakeRecommendation {
	best := result.BestSide()
	opponent := result.OpponentOf(best.PlayerID)
	now := time.Now().UTC()

	outcome := a.engine.Recommend(staking.Inputs{
		Probability: best.Probability,
		Odds:        best.Odds,
		Implied:     best.Implied,
		Edge:        best.Edge,
		HasDataA:    result.Snapshot.HasDataA,
		HasDataB:    result.Snapshot.HasDataB,
		ActivityA:   result.Snapshot.ActivityA,
		ActivityB:   result.Snapshot.ActivityB,
	})

	tags := a.classifier.Tags(best.Probability, best.Edge, best.Odds)

	primary := &models.StakeRecommendation{
		ID:            uuid.New(),
		Key:           result.Key,
		SelectionID:   best.PlayerID,
		OpponentID:    opponent.PlayerID,
		Odds:          best.Odds,
		Probability:   best.Probability,
		Edge:          best.Edge,
		ExpectedValue: best.ExpectedValue,
		Stake:         outcome.Stake,
		Modifiers:     outcome.Modifiers,
		Tags:          tags,
		Reason:        outcome.Reason,
		CreatedAt:     now,
	}

	if primary.IsBet() {
		metrics.RecommendationsTotal.WithLabelValues("bet").Inc()
	} else {
		metrics.RecommendationsTotal.WithLabelValues("no_bet").Inc()
	}
	a.log.LogRecommendation(result.Key.Tournament, result.Key.MatchID,
		best.PlayerID.String(), best.Probability, best.Edge, outcome.Stake, tagStrings(tags), outcome.Reason)

	recs := []*models.StakeRecommendation{primary}

	emit, replace := a.classifier.Fade(tags, opponent.Odds)
	if emit {
		fade := &models.StakeRecommendation{
			ID:            uuid.New(),
			Key:           result.Key,
			SelectionID:   opponent.PlayerID,
			OpponentID:    best.PlayerID,
			Odds:          opponent.Odds,
			Probability:   opponent.Probability,
			Edge:          opponent.Edge,
			ExpectedValue: opponent.ExpectedValue,
			Stake:         a.engine.MinUnit(),
			Tags:          append(a.classifier.Tags(opponent.Probability, opponent.Edge, opponent.Odds), models.TagFade),
			CreatedAt:     now,
		}
		metrics.RecommendationsTotal.WithLabelValues("fade").Inc()
		a.log.LogFadeEmitted(result.Key.Tournament, result.Key.MatchID,
			best.PlayerID.String(), opponent.PlayerID.String(), opponent.Odds, replace)
		if replace {
			recs = []*models.StakeRecommendation{fade}
		} else {
			recs = append(recs, fade)
		}
	}

	return recs
}

// PlaceRecommendations freezes positive-stake recommendations into Bets
// and writes them through the conflict-guarded repository. Conflicts are
// reported, never retried; the in-process guard fails fast before the
// transaction even starts.
func (a *Analyzer) PlaceRecommendations(ctx context.Context, result *models.AnalysisResult, recs []*models.StakeRecommendation, matchDate time.Time) (int, error) {
	placed := 0
	for _, rec := range recs {
		if !rec.IsBet() {
			continue
		}

		entry := ledger.Entry{Key: rec.Key, Selection: rec.SelectionID, Fade: rec.IsFade()}
		if err := a.guard.Reserve(entry); err != nil {
			a.rejectConflict(rec, err)
			continue
		}

		bet, err := a.freeze(result, rec, matchDate)
		if err != nil {
			a.guard.Release(entry)
			return placed, err
		}

		if err := a.bets.Place(ctx, bet); err != nil {
			a.guard.Release(entry)
			if errors.Is(err, models.ErrDuplicateBet) || errors.Is(err, models.ErrOpposingBet) {
				a.rejectConflict(rec, err)
				continue
			}
			return placed, fmt.Errorf("failed to place bet: %w", err)
		}

		placed++
		metrics.BetsPlacedTotal.Inc()
		metrics.ActiveBets.Inc()
		a.audit.LogBetPlacement(bet.ID.String(), bet.Tournament, bet.MatchID,
			bet.SelectionID.String(), bet.Stake, bet.Odds, bet.Edge, tagStrings(bet.Tags), bet.PlacedAt)
	}
	return placed, nil
}

func (a *Analyzer) rejectConflict(rec *models.StakeRecommendation, err error) {
	kind := "opposing"
	if errors.Is(err, models.ErrDuplicateBet) {
		kind = "duplicate"
	}
	metrics.ConflictRejectionsTotal.WithLabelValues(kind).Inc()
	a.audit.LogConflictRejection(rec.Key.Tournament, rec.Key.MatchID, rec.SelectionID.String(), err.Error())
}

// freeze serializes the analysis inputs into an immutable Bet. The stored
// snapshot plus profile version is everything the offline audit needs to
// recompute probability and stake bit-identically.
func (a *Analyzer) freeze(result *models.AnalysisResult, rec *models.StakeRecommendation, matchDate time.Time) (*models.Bet, error) {
	snapJSON, err := json.Marshal(result.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	modsJSON, err := json.Marshal(rec.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize modifiers: %w", err)
	}

	now := time.Now().UTC()
	return &models.Bet{
		ID:             rec.ID,
		Tournament:     rec.Key.Tournament,
		MatchID:        rec.Key.MatchID,
		SelectionID:    rec.SelectionID,
		OpponentID:     rec.OpponentID,
		MatchDate:      matchDate,
		Odds:           rec.Odds,
		Stake:          rec.Stake,
		Probability:    rec.Probability,
		Edge:           rec.Edge,
		ExpectedValue:  rec.ExpectedValue,
		Tags:           rec.Tags,
		ProfileName:    result.ProfileName,
		ProfileVersion: result.ProfileVersion,
		Snapshot:       snapJSON,
		Modifiers:      modsJSON,
		Status:         models.BetStatusActive,
		PlacedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// AnalyzeBatch analyzes every upcoming pair in parallel, placing the
// resulting recommendations. Each pair is an independent unit of work and
// cancellation; one pair failing cancels the rest via the group context.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, asOf time.Time) (int, error) {
	start := time.Now()

	pairs, err := a.history.UpcomingPairs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch upcoming pairs: %w", err)
	}
	metrics.LastBatchSize.Set(float64(len(pairs)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)

	placedTotal := 0
	results := make([]int, len(pairs))
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			prices, err := a.odds.Prices(gctx, pair)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", pair.Key.Tournament, pair.Key.MatchID, err)
			}
			result, err := a.AnalyzeMatch(gctx, pair, prices, asOf)
			if err != nil {
				return err
			}
			recs := a.Recommend(result)
			placed, err := a.PlaceRecommendations(gctx, result, recs, pair.ScheduledStart)
			if err != nil {
				return err
			}
			results[i] = placed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return placedTotal, err
	}
	for _, placed := range results {
		placedTotal += placed
	}

	metrics.BatchDuration.Observe(time.Since(start).Seconds())
	return placedTotal, nil
}

func tagStrings(tags []models.ModelTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
