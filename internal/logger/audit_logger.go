// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetPlacement logs a bet placement event.
func (al *AuditLogger) LogBetPlacement(betID, tournament, matchID, selection string, stake, odds, edge float64, tags []string, placedAt time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":     betID,
		"tournament": tournament,
		"match_id":   matchID,
		"selection":  selection,
		"stake":      stake,
		"odds":       odds,
		"edge":       edge,
		"tags":       tags,
		"placed_at":  placedAt.Unix(),
	}).Info("Bet placement recorded")
}

// LogConflictRejection logs a conflict-guard rejection.
func (al *AuditLogger) LogConflictRejection(tournament, matchID, selection, reason string) {
	al.WithFields(logrus.Fields{
		"tournament": tournament,
		"match_id":   matchID,
		"selection":  selection,
		"reason":     reason,
	}).Warn("Recommendation rejected by conflict guard")
}

// LogDeterminismCheck logs the outcome of an offline recompute check.
func (al *AuditLogger) LogDeterminismCheck(betID string, deterministic bool, storedStake, recomputedStake float64) {
	entry := al.WithFields(logrus.Fields{
		"bet_id":           betID,
		"deterministic":    deterministic,
		"stored_stake":     storedStake,
		"recomputed_stake": recomputedStake,
	})
	if deterministic {
		entry.Info("Determinism check passed")
	} else {
		entry.Error("Determinism check failed")
	}
}
