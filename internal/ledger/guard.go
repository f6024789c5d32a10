// Package ledger enforces the at-most-one-active-recommendation invariants
// at the persistence boundary: no second active entry for the same
// (tournament, match, selection) key, and no two active entries on
// opposite selections of the same match except the explicitly tagged fade
// pairing.
package ledger

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// Entry is the conflict-relevant projection of an active bet
type Entry struct {
	Key       models.MatchKey
	Selection uuid.UUID
	Fade      bool
}

// CheckConflict decides whether an incoming entry may join the given
// active entries for the same match. The fade exception admits exactly one
// primary/fade pairing on opposite selections; it is a sanctioned second
// entry, never a bypass of the duplicate check.
func CheckConflict(existing []Entry, incoming Entry) error {
	for _, e := range existing {
		if e.Selection == incoming.Selection {
			return fmt.Errorf("%s %s selection %s: %w",
				incoming.Key.Tournament, incoming.Key.MatchID, incoming.Selection, models.ErrDuplicateBet)
		}
		if e.Fade == incoming.Fade {
			return fmt.Errorf("%s %s: %w",
				incoming.Key.Tournament, incoming.Key.MatchID, models.ErrOpposingBet)
		}
	}
	return nil
}

// Guard is the in-process conflict guard. The check and the reservation
// happen under one lock so concurrent writers (a scheduled run and a
// manual trigger) cannot race past the invariant.
type Guard struct {
	mu     sync.Mutex
	active map[models.MatchKey][]Entry
}

// NewGuard creates an empty guard
func NewGuard() *Guard {
	return &Guard{active: make(map[models.MatchKey][]Entry)}
}

// Reserve atomically checks and records an entry. It returns
// models.ErrDuplicateBet or models.ErrOpposingBet on conflict; the caller
// decides what to do, nothing is overwritten silently.
func (g *Guard) Reserve(e Entry) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := CheckConflict(g.active[e.Key], e); err != nil {
		return err
	}
	g.active[e.Key] = append(g.active[e.Key], e)
	return nil
}

// Release removes an entry, e.g. after settlement or a failed downstream
// write
func (g *Guard) Release(e Entry) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entries := g.active[e.Key]
	for i, existing := range entries {
		if existing.Selection == e.Selection && existing.Fade == e.Fade {
			g.active[e.Key] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(g.active[e.Key]) == 0 {
		delete(g.active, e.Key)
	}
}

// Active returns the number of active entries for a match
func (g *Guard) Active(key models.MatchKey) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.active[key])
}
