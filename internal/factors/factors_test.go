package factors

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/court-edge/internal/models"
)

var (
	playerA = &models.Player{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "A", CurrentRank: 10}
	playerB = &models.Player{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: "B", CurrentRank: 50}
	playerC = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	asOf = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
)

func match(id byte, date time.Time, winner, loser uuid.UUID, winnerRank, loserRank int, surface models.Surface, minutes int) *models.HistoricalMatch {
	return &models.HistoricalMatch{
		ID:              uuid.UUID{id},
		Date:            date,
		Surface:         surface,
		WinnerID:        winner,
		LoserID:         loser,
		WinnerRank:      winnerRank,
		LoserRank:       loserRank,
		Sets:            3,
		DurationMinutes: minutes,
	}
}

func TestHistoryExcludesMatchesOnOrAfterAsOf(t *testing.T) {
	matches := []*models.HistoricalMatch{
		match(1, asOf.AddDate(0, 0, -10), playerA.ID, playerC, 10, 100, models.SurfaceHard, 90),
		match(2, asOf, playerA.ID, playerC, 10, 100, models.SurfaceHard, 90),
		match(3, asOf.AddDate(0, 0, 5), playerA.ID, playerC, 10, 100, models.SurfaceHard, 90),
	}

	h := NewHistory(asOf, matches)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 1, len(h.PlayerMatches(playerA.ID, 0)))
}

func TestHistoryDeterministicOrder(t *testing.T) {
	sameDay := asOf.AddDate(0, 0, -3)
	m1 := match(1, sameDay, playerA.ID, playerC, 10, 100, models.SurfaceHard, 90)
	m2 := match(2, sameDay, playerA.ID, playerC, 10, 100, models.SurfaceHard, 90)

	h1 := NewHistory(asOf, []*models.HistoricalMatch{m1, m2})
	h2 := NewHistory(asOf, []*models.HistoricalMatch{m2, m1})

	got1 := h1.PlayerMatches(playerA.ID, 0)
	got2 := h2.PlayerMatches(playerA.ID, 0)
	require.Len(t, got1, 2)
	assert.Equal(t, got1[0].ID, got2[0].ID)
	assert.Equal(t, got1[1].ID, got2[1].ID)
}

func TestRankAsOfUsesMatchTimeRank(t *testing.T) {
	// Player A was ranked 40 at their last recorded match even though the
	// present-day rank is 10. Historical evaluation must see 40.
	matches := []*models.HistoricalMatch{
		match(1, asOf.AddDate(0, 0, -20), playerA.ID, playerC, 40, 120, models.SurfaceHard, 90),
	}
	h := NewHistory(asOf, matches)

	rank, ok := h.RankAsOf(playerA.ID)
	require.True(t, ok)
	assert.Equal(t, 40, rank)
}

func TestRankingFactorFallbackIsFlaggedNoData(t *testing.T) {
	f := NewRankingFactor(DefaultConfig())
	h := NewHistory(asOf, nil)

	result := f.Evaluate(Input{PlayerA: playerA, PlayerB: playerB, Surface: models.SurfaceHard, History: h})

	// Current ranks still produce an advantage, but the result must not
	// claim data backing.
	assert.False(t, result.HasData)
	assert.Greater(t, result.Advantage, 0.0)
}

func TestRankingFactorBetterRankPositiveAdvantage(t *testing.T) {
	f := NewRankingFactor(DefaultConfig())
	matches := []*models.HistoricalMatch{
		match(1, asOf.AddDate(0, 0, -10), playerA.ID, playerC, 5, 200, models.SurfaceHard, 90),
		match(2, asOf.AddDate(0, 0, -12), playerB.ID, playerC, 150, 200, models.SurfaceHard, 90),
	}
	h := NewHistory(asOf, matches)

	result := f.Evaluate(Input{PlayerA: playerA, PlayerB: playerB, Surface: models.SurfaceHard, History: h})

	assert.True(t, result.HasData)
	assert.Greater(t, result.Advantage, 0.0)
	assert.LessOrEqual(t, result.Advantage, 1.0)
}

func TestHeadToHeadNoMeetingsIsNoData(t *testing.T) {
	f := NewHeadToHeadFactor(DefaultConfig())
	matches := []*models.HistoricalMatch{
		match(1, asOf.AddDate(0, 0, -10), playerA.ID, playerC, 10, 100, models.SurfaceHard, 90),
	}
	h := NewHistory(asOf, matches)

	result := f.Evaluate(Input{PlayerA: playerA, PlayerB: playerB, Surface: models.SurfaceHard, History: h})

	assert.False(t, result.HasData)
	assert.Zero(t, result.Advantage)
	assert.Zero(t, result.SampleSize)
}

func TestHeadToHeadDominantRecord(t *testing.T) {
	f := NewHeadToHeadFactor(DefaultConfig())
	matches := []*models.HistoricalMatch{
		match(1, asOf.AddDate(0, 0, -30), playerA.ID, playerB.ID, 10, 50, models.SurfaceHard, 90),
		match(2, asOf.AddDate(0, 0, -60), playerA.ID, playerB.ID, 10, 50, models.SurfaceClay, 120),
		match(3, asOf.AddDate(0, 0, -90), playerA.ID, playerB.ID, 10, 50, models.SurfaceHard, 100),
	}
	h := NewHistory(asOf, matches)

	result := f.Evaluate(Input{PlayerA: playerA, PlayerB: playerB, Surface: models.SurfaceHard, History: h})

	assert.True(t, result.HasData)
	assert.Equal(t, 3, result.SampleSize)
	assert.Equal(t, 1.0, result.Advantage)
}

func TestFormFactorWinnerAheadOfLoser(t *testing.T) {
	f := NewFormFactor(DefaultConfig())
	var matches []*models.HistoricalMatch
	for i := 0; i < 5; i++ {
		matches = append(matches,
			match(byte(10+i), asOf.AddDate(0, 0, -5*(i+1)), playerA.ID, playerC, 10, 100, models.SurfaceHard, 90),
			match(byte(20+i), asOf.AddDate(0, 0, -5*(i+1)), playerC, playerB.ID, 100, 50, models.SurfaceHard, 90),
		)
	}
	h := NewHistory(asOf, matches)

	result := f.Evaluate(Input{PlayerA: playerA, PlayerB: playerB, Surface: models.SurfaceHard, History: h})

	assert.True(t, result.HasData)
	assert.Greater(t, result.Advantage, 0.0)
}

func TestRecentLossPenaltyDoublesForLongMatch(t *testing.T) {
	cfg := DefaultConfig()
	f := NewRecentLossFactor(cfg)

	shortLoss := []*models.HistoricalMatch{
		match(1, asOf.AddDate(0, 0, -1), playerC, playerA.ID, 100, 10, models.SurfaceHard, 80),
	}
	longLoss := []*models.HistoricalMatch{
		match(2, asOf.AddDate(0, 0, -1), playerC, playerA.ID, 100, 10, models.SurfaceHard, 200),
	}

	short := f.Evaluate(Input{PlayerA: playerA, PlayerB: playerB, Surface: models.SurfaceHard, History: NewHistory(asOf, shortLoss)})
	long := f.Evaluate(Input{PlayerA: playerA, PlayerB: playerB, Surface: models.SurfaceHard, History: NewHistory(asOf, longLoss)})

	assert.InDelta(t, -cfg.RecentLossPenalty, short.Advantage, 1e-12)
	assert.InDelta(t, -2*cfg.RecentLossPenalty, long.Advantage, 1e-12)
}

func TestMomentumCapped(t *testing.T) {
	cfg := DefaultConfig()
	f := NewMomentumFactor(cfg)

	var matches []*models.HistoricalMatch
	for i := 0; i < 10; i++ {
		matches = append(matches,
			match(byte(30+i), asOf.AddDate(0, 0, -(i+1)), playerA.ID, playerC, 10, 100, models.SurfaceClay, 90))
	}
	h := NewHistory(asOf, matches)

	result := f.Evaluate(Input{PlayerA: playerA, PlayerB: playerB, Surface: models.SurfaceClay, History: h})

	assert.InDelta(t, cfg.MomentumCap, result.Advantage, 1e-12)
}

func TestActivityScoreZeroWithoutHistory(t *testing.T) {
	h := NewHistory(asOf, nil)
	assert.Zero(t, ActivityScore(playerA.ID, h, DefaultConfig()))
}

func TestActivityScoreFullForBusyRecentPlayer(t *testing.T) {
	var matches []*models.HistoricalMatch
	for i := 0; i < 8; i++ {
		matches = append(matches,
			match(byte(40+i), asOf.AddDate(0, 0, -(3+i*7)), playerA.ID, playerC, 10, 100, models.SurfaceHard, 90))
	}
	h := NewHistory(asOf, matches)

	score := ActivityScore(playerA.ID, h, DefaultConfig())
	assert.InDelta(t, 100, score, 1e-9)
}

func TestSnapshotMarksBothPlayersNoData(t *testing.T) {
	lib := NewLibrary(DefaultConfig())

	snap := lib.Snapshot(playerA, playerB, models.SurfaceHard, asOf, nil)

	assert.False(t, snap.HasDataA)
	assert.False(t, snap.HasDataB)
	assert.Zero(t, snap.SampleA)
	assert.Zero(t, snap.SampleB)
}

func TestSnapshotIgnoresFutureMatches(t *testing.T) {
	lib := NewLibrary(DefaultConfig())

	past := match(1, asOf.AddDate(0, 0, -5), playerA.ID, playerB.ID, 10, 50, models.SurfaceHard, 90)
	future := match(2, asOf.AddDate(0, 0, 5), playerB.ID, playerA.ID, 50, 10, models.SurfaceHard, 90)

	withFuture := lib.Snapshot(playerA, playerB, models.SurfaceHard, asOf, []*models.HistoricalMatch{past, future})
	withoutFuture := lib.Snapshot(playerA, playerB, models.SurfaceHard, asOf, []*models.HistoricalMatch{past})

	assert.Equal(t, withoutFuture, withFuture)
}
