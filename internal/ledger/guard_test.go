package ledger

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/court-edge/internal/models"
)

var (
	keyMatchY = models.MatchKey{Tournament: "TournamentX", MatchID: "MatchY"}
	playerZ   = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	playerW   = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func TestGuardRejectsDuplicateKey(t *testing.T) {
	g := NewGuard()

	require.NoError(t, g.Reserve(Entry{Key: keyMatchY, Selection: playerZ}))

	err := g.Reserve(Entry{Key: keyMatchY, Selection: playerZ})
	assert.ErrorIs(t, err, models.ErrDuplicateBet)
}

func TestGuardRejectsOpposingSelection(t *testing.T) {
	g := NewGuard()

	require.NoError(t, g.Reserve(Entry{Key: keyMatchY, Selection: playerZ}))

	err := g.Reserve(Entry{Key: keyMatchY, Selection: playerW})
	assert.ErrorIs(t, err, models.ErrOpposingBet)
}

func TestGuardAdmitsFadePairing(t *testing.T) {
	g := NewGuard()

	require.NoError(t, g.Reserve(Entry{Key: keyMatchY, Selection: playerZ}))
	require.NoError(t, g.Reserve(Entry{Key: keyMatchY, Selection: playerW, Fade: true}))

	assert.Equal(t, 2, g.Active(keyMatchY))
}

func TestGuardRejectsSecondFade(t *testing.T) {
	g := NewGuard()

	require.NoError(t, g.Reserve(Entry{Key: keyMatchY, Selection: playerZ, Fade: true}))

	err := g.Reserve(Entry{Key: keyMatchY, Selection: playerW, Fade: true})
	assert.ErrorIs(t, err, models.ErrOpposingBet)
}

func TestGuardRejectsDuplicateFadeSelection(t *testing.T) {
	g := NewGuard()

	require.NoError(t, g.Reserve(Entry{Key: keyMatchY, Selection: playerZ}))

	// The fade flag never bypasses the duplicate-selection check.
	err := g.Reserve(Entry{Key: keyMatchY, Selection: playerZ, Fade: true})
	assert.ErrorIs(t, err, models.ErrDuplicateBet)
}

func TestGuardIndependentMatches(t *testing.T) {
	g := NewGuard()

	otherKey := models.MatchKey{Tournament: "TournamentX", MatchID: "MatchQ"}
	require.NoError(t, g.Reserve(Entry{Key: keyMatchY, Selection: playerZ}))
	require.NoError(t, g.Reserve(Entry{Key: otherKey, Selection: playerZ}))
}

func TestGuardRelease(t *testing.T) {
	g := NewGuard()

	e := Entry{Key: keyMatchY, Selection: playerZ}
	require.NoError(t, g.Reserve(e))
	g.Release(e)

	assert.Zero(t, g.Active(keyMatchY))
	assert.NoError(t, g.Reserve(e))
}

func TestGuardConcurrentWritersAdmitExactlyOne(t *testing.T) {
	g := NewGuard()

	const writers = 64
	var wg sync.WaitGroup
	successes := make(chan struct{}, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Reserve(Entry{Key: keyMatchY, Selection: playerZ}); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, g.Active(keyMatchY))
}

func TestCheckConflictTableSemantics(t *testing.T) {
	existing := []Entry{{Key: keyMatchY, Selection: playerZ, Fade: false}}

	assert.ErrorIs(t,
		CheckConflict(existing, Entry{Key: keyMatchY, Selection: playerZ}),
		models.ErrDuplicateBet)
	assert.ErrorIs(t,
		CheckConflict(existing, Entry{Key: keyMatchY, Selection: playerW}),
		models.ErrOpposingBet)
	assert.NoError(t,
		CheckConflict(existing, Entry{Key: keyMatchY, Selection: playerW, Fade: true}))
}
