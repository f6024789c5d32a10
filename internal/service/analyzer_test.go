package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/court-edge/internal/analysis"
	"github.com/yourusername/court-edge/internal/classifier"
	"github.com/yourusername/court-edge/internal/datasource"
	"github.com/yourusername/court-edge/internal/factors"
	"github.com/yourusername/court-edge/internal/ledger"
	"github.com/yourusername/court-edge/internal/models"
	"github.com/yourusername/court-edge/internal/staking"
)

var (
	svcAsOf   = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	svcKey    = models.MatchKey{Tournament: "TournamentX", MatchID: "MatchY"}
	svcRival  = uuid.MustParse("99999999-9999-9999-9999-999999999999")
	svcSideA  = &models.Player{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "A", CurrentRank: 8}
	svcSideB  = &models.Player{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: "B", CurrentRank: 40}
)

type fakeMatchRepo struct {
	matches []*models.HistoricalMatch
}

func (r *fakeMatchRepo) InsertBatch(ctx context.Context, matches []*models.HistoricalMatch) error {
	return nil
}

func (r *fakeMatchRepo) GetBefore(ctx context.Context, asOf time.Time) ([]*models.HistoricalMatch, error) {
	return r.matches, nil
}

func (r *fakeMatchRepo) GetByPlayersBefore(ctx context.Context, a, b uuid.UUID, asOf time.Time) ([]*models.HistoricalMatch, error) {
	return r.matches, nil
}

// memBetRepo enforces the same conflict semantics as the SQL repository,
// in memory.
type memBetRepo struct {
	mu   sync.Mutex
	bets []*models.Bet
}

func (r *memBetRepo) Place(ctx context.Context, bet *models.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing []ledger.Entry
	for _, b := range r.bets {
		if b.IsActive() && b.Tournament == bet.Tournament && b.MatchID == bet.MatchID {
			existing = append(existing, ledger.Entry{Key: b.Key(), Selection: b.SelectionID, Fade: b.IsFade()})
		}
	}
	incoming := ledger.Entry{Key: bet.Key(), Selection: bet.SelectionID, Fade: bet.IsFade()}
	if err := ledger.CheckConflict(existing, incoming); err != nil {
		return err
	}
	r.bets = append(r.bets, bet)
	return nil
}

func (r *memBetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bets {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memBetRepo) GetActive(ctx context.Context) ([]*models.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Bet
	for _, b := range r.bets {
		if b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBetRepo) GetActiveByMatch(ctx context.Context, key models.MatchKey) ([]*models.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Bet
	for _, b := range r.bets {
		if b.IsActive() && b.Key() == key {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBetRepo) GetSettled(ctx context.Context, start, end time.Time) ([]*models.Bet, error) {
	return nil, nil
}

func (r *memBetRepo) Settle(ctx context.Context, id uuid.UUID, outcome models.BetOutcome, profitLoss float64, settledAt time.Time) error {
	return nil
}

func svcHistory() []*models.HistoricalMatch {
	var out []*models.HistoricalMatch
	for i := 0; i < 6; i++ {
		out = append(out,
			&models.HistoricalMatch{
				ID:              uuid.UUID{byte(10 + i)},
				Date:            svcAsOf.AddDate(0, 0, -(7 + i*10)),
				Surface:         models.SurfaceHard,
				WinnerID:        svcSideA.ID,
				LoserID:         svcRival,
				WinnerRank:      8,
				LoserRank:       60,
				Sets:            3,
				DurationMinutes: 95,
			},
			&models.HistoricalMatch{
				ID:              uuid.UUID{byte(50 + i)},
				Date:            svcAsOf.AddDate(0, 0, -(9 + i*10)),
				Surface:         models.SurfaceHard,
				WinnerID:        svcRival,
				LoserID:         svcSideB.ID,
				WinnerRank:      60,
				LoserRank:       40,
				Sets:            3,
				DurationMinutes: 100,
			},
		)
	}
	return out
}

func svcProfile() models.WeightProfile {
	return models.WeightProfile{
		Name:    "balanced",
		Version: "test",
		Weights: map[string]float64{
			factors.NameForm:    0.4,
			factors.NameRanking: 0.4,
			factors.NameSurface: 0.2,
		},
	}
}

func newTestAnalyzer(t *testing.T, bets *memBetRepo) *Analyzer {
	t.Helper()

	a, err := NewAnalyzer(Deps{
		Library:        factors.NewLibrary(factors.DefaultConfig()),
		Aggregator:     analysis.NewAggregator(analysis.DefaultConfig(), nil),
		Engine:         staking.NewEngine(staking.DefaultConfig(), nil),
		Classifier:     classifier.New(classifier.DefaultRules(), classifier.DefaultFadeRule()),
		Profile:        svcProfile(),
		ProfileVersion: "test",
		Matches:        &fakeMatchRepo{matches: svcHistory()},
		Bets:           bets,
		MaxConcurrency: 2,
	})
	require.NoError(t, err)
	return a
}

func svcPair() datasource.MatchPair {
	return datasource.MatchPair{
		Key:            svcKey,
		PlayerA:        svcSideA,
		PlayerB:        svcSideB,
		Surface:        models.SurfaceHard,
		ScheduledStart: svcAsOf.AddDate(0, 0, 1),
	}
}

func TestAnalyzeMatchDeterministic(t *testing.T) {
	a := newTestAnalyzer(t, &memBetRepo{})
	prices := &datasource.MarketPrices{OddsA: 1.8, OddsB: 2.2, Timestamp: svcAsOf}

	first, err := a.AnalyzeMatch(context.Background(), svcPair(), prices, svcAsOf)
	require.NoError(t, err)

	second, err := a.AnalyzeMatch(context.Background(), svcPair(), prices, svcAsOf)
	require.NoError(t, err)

	assert.Equal(t, first.A, second.A)
	assert.Equal(t, first.B, second.B)
	assert.Equal(t, first.Snapshot, second.Snapshot)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestAnalyzeMatchFavorsStrongerSide(t *testing.T) {
	a := newTestAnalyzer(t, &memBetRepo{})
	prices := &datasource.MarketPrices{OddsA: 1.8, OddsB: 2.2, Timestamp: svcAsOf}

	result, err := a.AnalyzeMatch(context.Background(), svcPair(), prices, svcAsOf)
	require.NoError(t, err)

	// A has the better rank, all recent wins, and B all recent losses.
	assert.Greater(t, result.A.Probability, result.B.Probability)
	assert.True(t, result.Snapshot.HasDataA)
	assert.True(t, result.Snapshot.HasDataB)
}

func TestAnalyzeMatchRejectsInvalidOdds(t *testing.T) {
	a := newTestAnalyzer(t, &memBetRepo{})
	prices := &datasource.MarketPrices{OddsA: 1.0, OddsB: 2.2, Timestamp: svcAsOf}

	_, err := a.AnalyzeMatch(context.Background(), svcPair(), prices, svcAsOf)
	assert.ErrorIs(t, err, models.ErrInvalidOdds)
}

func TestRecommendStakeRecomputesIdentically(t *testing.T) {
	a := newTestAnalyzer(t, &memBetRepo{})
	prices := &datasource.MarketPrices{OddsA: 2.1, OddsB: 1.9, Timestamp: svcAsOf}

	result, err := a.AnalyzeMatch(context.Background(), svcPair(), prices, svcAsOf)
	require.NoError(t, err)

	first := a.Recommend(result)
	second := a.Recommend(result)
	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.Equal(t, first[i].Stake, second[i].Stake)
		assert.Equal(t, first[i].Probability, second[i].Probability)
		assert.Equal(t, first[i].Tags, second[i].Tags)
	}
}

func TestPlaceRecommendationsRejectsDuplicate(t *testing.T) {
	repo := &memBetRepo{}
	a := newTestAnalyzer(t, repo)

	result := &models.AnalysisResult{
		Key:         svcKey,
		ProfileName: "balanced",
		Snapshot:    models.FactorSnapshot{PlayerAID: svcSideA.ID, PlayerBID: svcSideB.ID},
	}
	rec := &models.StakeRecommendation{
		ID:          uuid.New(),
		Key:         svcKey,
		SelectionID: svcSideA.ID,
		OpponentID:  svcSideB.ID,
		Odds:        2.0,
		Probability: 0.6,
		Edge:        0.1,
		Stake:       2.5,
		Tags:        []models.ModelTag{models.TagAll},
	}

	placed, err := a.PlaceRecommendations(context.Background(), result, []*models.StakeRecommendation{rec}, svcAsOf)
	require.NoError(t, err)
	assert.Equal(t, 1, placed)

	dup := *rec
	dup.ID = uuid.New()
	placed, err = a.PlaceRecommendations(context.Background(), result, []*models.StakeRecommendation{&dup}, svcAsOf)
	require.NoError(t, err)
	assert.Zero(t, placed)
}

func TestPlaceRecommendationsAdmitsFadePairing(t *testing.T) {
	repo := &memBetRepo{}
	a := newTestAnalyzer(t, repo)

	result := &models.AnalysisResult{
		Key:         svcKey,
		ProfileName: "balanced",
		Snapshot:    models.FactorSnapshot{PlayerAID: svcSideA.ID, PlayerBID: svcSideB.ID},
	}
	primary := &models.StakeRecommendation{
		ID: uuid.New(), Key: svcKey,
		SelectionID: svcSideA.ID, OpponentID: svcSideB.ID,
		Odds: 2.0, Probability: 0.6, Edge: 0.1, Stake: 2.5,
		Tags: []models.ModelTag{models.TagAll},
	}
	fade := &models.StakeRecommendation{
		ID: uuid.New(), Key: svcKey,
		SelectionID: svcSideB.ID, OpponentID: svcSideA.ID,
		Odds: 3.0, Probability: 0.35, Edge: -0.05, Stake: 0.5,
		Tags: []models.ModelTag{models.TagAll, models.TagFade},
	}
	opposing := &models.StakeRecommendation{
		ID: uuid.New(), Key: svcKey,
		SelectionID: svcSideB.ID, OpponentID: svcSideA.ID,
		Odds: 3.0, Probability: 0.35, Edge: -0.05, Stake: 1.0,
		Tags: []models.ModelTag{models.TagAll},
	}

	placed, err := a.PlaceRecommendations(context.Background(), result,
		[]*models.StakeRecommendation{primary, fade, opposing}, svcAsOf)
	require.NoError(t, err)
	assert.Equal(t, 2, placed)

	active, err := repo.GetActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestPlaceRecommendationsSkipsZeroStake(t *testing.T) {
	repo := &memBetRepo{}
	a := newTestAnalyzer(t, repo)

	result := &models.AnalysisResult{Key: svcKey, ProfileName: "balanced"}
	rec := &models.StakeRecommendation{
		ID: uuid.New(), Key: svcKey,
		SelectionID: svcSideA.ID,
		Reason:      "edge below minimum threshold",
	}

	placed, err := a.PlaceRecommendations(context.Background(), result, []*models.StakeRecommendation{rec}, svcAsOf)
	require.NoError(t, err)
	assert.Zero(t, placed)
	assert.Empty(t, repo.bets)
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	c := NewSnapshotCache(time.Minute)
	snap := models.FactorSnapshot{PlayerAID: svcSideA.ID, PlayerBID: svcSideB.ID, SampleA: 7}

	_, ok := c.Get(svcKey, svcAsOf, "balanced", "v1")
	assert.False(t, ok)

	c.Set(svcKey, svcAsOf, "balanced", "v1", snap)

	got, ok := c.Get(svcKey, svcAsOf, "balanced", "v1")
	require.True(t, ok)
	assert.Equal(t, snap, got)

	// A different profile version misses.
	_, ok = c.Get(svcKey, svcAsOf, "balanced", "v2")
	assert.False(t, ok)
}
