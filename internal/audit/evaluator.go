// Package audit recomputes persisted bets strictly from their frozen
// inputs. Verification reruns aggregation and staking from the stored
// snapshot and demands bit-identical output; replay reruns full factor
// computation with the match's own date as the as-of cut to detect drift
// between stored and recomputable history. Replaying with "now" would
// leak post-match results into the factors, which is exactly the class of
// bug this tool exists to catch.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-edge/internal/analysis"
	"github.com/yourusername/court-edge/internal/factors"
	"github.com/yourusername/court-edge/internal/logger"
	"github.com/yourusername/court-edge/internal/models"
	"github.com/yourusername/court-edge/internal/repository"
	"github.com/yourusername/court-edge/internal/staking"
)

// Verification is the outcome of a determinism check for one bet
type Verification struct {
	BetID                 string  `json:"bet_id"`
	Deterministic         bool    `json:"deterministic"`
	StoredProbability     float64 `json:"stored_probability"`
	RecomputedProbability float64 `json:"recomputed_probability"`
	StoredStake           float64 `json:"stored_stake"`
	RecomputedStake       float64 `json:"recomputed_stake"`
	Skipped               bool    `json:"skipped"`
	SkipReason            string  `json:"skip_reason,omitempty"`
}

// Drift is the outcome of replaying factor computation from source history
type Drift struct {
	BetID    string `json:"bet_id"`
	Drifted  bool   `json:"drifted"`
	Detail   string `json:"detail,omitempty"`
	AsOfDate string `json:"as_of_date"`
}

// TagPerformance aggregates settled results for one model tag
type TagPerformance struct {
	Tag      models.ModelTag `json:"tag"`
	Bets     int             `json:"bets"`
	Wins     int             `json:"wins"`
	HitRate  float64         `json:"hit_rate"`
	Staked   float64         `json:"staked"`
	Returned float64         `json:"returned"`
	ROI      float64         `json:"roi"`
}

// Evaluator recomputes and scores persisted bets
type Evaluator struct {
	library    *factors.Library
	aggregator *analysis.Aggregator
	engine     *staking.Engine
	profiles   map[string]models.WeightProfile
	players    repository.PlayerRepository
	matches    repository.MatchRepository
	bets       repository.BetRepository
	log        *logger.AuditLogger
}

// NewEvaluator creates an evaluator. Profiles are keyed by name; the
// version stored on each bet must match the profile supplied here, a
// mismatch is a verification failure, not a silent fallback.
func NewEvaluator(
	library *factors.Library,
	aggregator *analysis.Aggregator,
	engine *staking.Engine,
	profiles map[string]models.WeightProfile,
	players repository.PlayerRepository,
	matches repository.MatchRepository,
	bets repository.BetRepository,
	baseLogger *logrus.Logger,
) *Evaluator {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &Evaluator{
		library:    library,
		aggregator: aggregator,
		engine:     engine,
		profiles:   profiles,
		players:    players,
		matches:    matches,
		bets:       bets,
		log:        logger.NewAuditLogger(baseLogger),
	}
}

// VerifyBet recomputes probability and stake from the bet's frozen
// snapshot and profile. Outputs must match the stored values exactly;
// float tolerance here would hide nondeterminism.
func (e *Evaluator) VerifyBet(bet *models.Bet) (Verification, error) {
	v := Verification{
		BetID:             bet.ID.String(),
		StoredProbability: bet.Probability,
		StoredStake:       bet.Stake,
	}

	profile, ok := e.profiles[bet.ProfileName]
	if !ok {
		return v, fmt.Errorf("bet %s: %w: %s", bet.ID, models.ErrUnknownProfile, bet.ProfileName)
	}
	if bet.ProfileVersion != profile.Version {
		// Verifying against different coefficients would be meaningless;
		// report the mismatch rather than recompute.
		v.Skipped = true
		v.SkipReason = fmt.Sprintf("profile version mismatch: bet placed under %q, loaded profile is %q",
			bet.ProfileVersion, profile.Version)
		e.log.LogDeterminismCheck(v.BetID, false, v.StoredStake, 0)
		return v, nil
	}

	snap, err := bet.DecodeSnapshot()
	if err != nil {
		return v, fmt.Errorf("bet %s: failed to decode snapshot: %w", bet.ID, err)
	}

	probs, err := e.aggregator.Aggregate(snap, profile)
	if err != nil {
		return v, fmt.Errorf("bet %s: %w", bet.ID, err)
	}

	implied, err := analysis.ImpliedProbability(bet.Odds)
	if err != nil {
		return v, fmt.Errorf("bet %s: %w", bet.ID, err)
	}

	calibrated := probs.Calibrated
	if bet.SelectionID == snap.PlayerBID {
		calibrated = 1 - probs.Calibrated
	}
	v.RecomputedProbability = e.aggregator.Blend(calibrated, implied)

	if bet.IsFade() {
		// Fade stakes are flat, not Kelly-derived; only the probability
		// is recomputable.
		v.Skipped = true
		v.SkipReason = "fade stake is flat, probability verified only"
		v.RecomputedStake = bet.Stake
		v.Deterministic = v.RecomputedProbability == v.StoredProbability
		e.log.LogDeterminismCheck(v.BetID, v.Deterministic, v.StoredStake, v.RecomputedStake)
		return v, nil
	}

	outcome := e.engine.Recommend(staking.Inputs{
		Probability: v.RecomputedProbability,
		Odds:        bet.Odds,
		Implied:     implied,
		Edge:        v.RecomputedProbability - implied,
		HasDataA:    snap.HasDataA,
		HasDataB:    snap.HasDataB,
		ActivityA:   snap.ActivityA,
		ActivityB:   snap.ActivityB,
	})
	v.RecomputedStake = outcome.Stake

	v.Deterministic = v.RecomputedProbability == v.StoredProbability && v.RecomputedStake == v.StoredStake
	e.log.LogDeterminismCheck(v.BetID, v.Deterministic, v.StoredStake, v.RecomputedStake)
	return v, nil
}

// ReplayBet recomputes the full factor snapshot from stored match history
// with as-of set to the match date, and compares it against the frozen
// one. A difference means the recomputable history has drifted from what
// the bet was placed on.
func (e *Evaluator) ReplayBet(ctx context.Context, bet *models.Bet) (Drift, error) {
	d := Drift{BetID: bet.ID.String(), AsOfDate: bet.MatchDate.UTC().Format(time.RFC3339)}

	frozen, err := bet.DecodeSnapshot()
	if err != nil {
		return d, fmt.Errorf("bet %s: failed to decode snapshot: %w", bet.ID, err)
	}

	playerA, err := e.players.GetByID(ctx, frozen.PlayerAID)
	if err != nil {
		return d, fmt.Errorf("bet %s: player A: %w", bet.ID, err)
	}
	playerB, err := e.players.GetByID(ctx, frozen.PlayerBID)
	if err != nil {
		return d, fmt.Errorf("bet %s: player B: %w", bet.ID, err)
	}

	matches, err := e.matches.GetByPlayersBefore(ctx, frozen.PlayerAID, frozen.PlayerBID, bet.MatchDate)
	if err != nil {
		return d, fmt.Errorf("bet %s: failed to load history: %w", bet.ID, err)
	}

	replayed := e.library.Snapshot(playerA, playerB, frozen.Surface, bet.MatchDate, matches)
	// Carry the frozen as-of date over: the frozen snapshot may have been
	// computed slightly before the match, the factor values are what must
	// agree.
	replayed.AsOfDate = frozen.AsOfDate

	frozenJSON, err := json.Marshal(frozen)
	if err != nil {
		return d, err
	}
	replayedJSON, err := json.Marshal(replayed)
	if err != nil {
		return d, err
	}

	if !bytes.Equal(frozenJSON, replayedJSON) {
		d.Drifted = true
		d.Detail = "replayed snapshot differs from frozen snapshot"
	}
	return d, nil
}

// VerifyActive verifies every active bet in the ledger
func (e *Evaluator) VerifyActive(ctx context.Context) ([]Verification, error) {
	bets, err := e.bets.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active bets: %w", err)
	}
	out := make([]Verification, 0, len(bets))
	for _, bet := range bets {
		v, err := e.VerifyBet(bet)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Performance aggregates hit rate and ROI per tag over settled bets in
// the window
func (e *Evaluator) Performance(ctx context.Context, start, end time.Time) ([]TagPerformance, error) {
	bets, err := e.bets.GetSettled(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled bets: %w", err)
	}
	return PerformanceOf(bets), nil
}

// PerformanceOf computes per-tag performance for an already loaded set of
// settled bets
func PerformanceOf(bets []*models.Bet) []TagPerformance {
	byTag := make(map[models.ModelTag]*TagPerformance)
	order := []models.ModelTag{}

	for _, bet := range bets {
		if bet.Status != models.BetStatusSettled || bet.Outcome == nil {
			continue
		}
		for _, tag := range bet.Tags {
			perf, ok := byTag[tag]
			if !ok {
				perf = &TagPerformance{Tag: tag}
				byTag[tag] = perf
				order = append(order, tag)
			}
			perf.Bets++
			perf.Staked += bet.Stake
			perf.Returned += bet.Stake + bet.SettledPnL()
			if *bet.Outcome == models.BetOutcomeWon {
				perf.Wins++
			}
		}
	}

	out := make([]TagPerformance, 0, len(order))
	for _, tag := range order {
		perf := byTag[tag]
		if perf.Bets > 0 {
			perf.HitRate = float64(perf.Wins) / float64(perf.Bets)
		}
		if perf.Staked > 0 {
			perf.ROI = (perf.Returned - perf.Staked) / perf.Staked
		}
		out = append(out, *perf)
	}
	return out
}
