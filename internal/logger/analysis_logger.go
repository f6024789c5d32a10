// Package logger provides analysis-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for analysis operations.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogAnalysis logs one completed match analysis.
func (al *AnalysisLogger) LogAnalysis(tournament, matchID string, probabilityA, probabilityB, confidence, edge float64, durationMs float64) {
	al.WithFields(logrus.Fields{
		"tournament":           tournament,
		"match_id":             matchID,
		"probability_a":        probabilityA,
		"probability_b":        probabilityB,
		"confidence":           confidence,
		"best_edge":            edge,
		"analysis_duration_ms": durationMs,
	}).Info("Match analysis completed")
}

// LogRecommendation logs a sized stake recommendation.
func (al *AnalysisLogger) LogRecommendation(tournament, matchID, selection string, probability, edge, stake float64, tags []string, reason string) {
	al.WithFields(logrus.Fields{
		"tournament":  tournament,
		"match_id":    matchID,
		"selection":   selection,
		"probability": probability,
		"edge":        edge,
		"stake":       stake,
		"tags":        tags,
		"reason":      reason,
	}).Info("Stake recommendation produced")
}

// LogFadeEmitted logs an opposite-selection fade emission.
func (al *AnalysisLogger) LogFadeEmitted(tournament, matchID, primarySelection, fadeSelection string, opponentOdds float64, replace bool) {
	al.WithFields(logrus.Fields{
		"tournament":        tournament,
		"match_id":          matchID,
		"primary_selection": primarySelection,
		"fade_selection":    fadeSelection,
		"opponent_odds":     opponentOdds,
		"replaces_primary":  replace,
	}).Info("Fade recommendation emitted")
}

// LogInsufficientData logs a hard stop for a pair without history.
func (al *AnalysisLogger) LogInsufficientData(tournament, matchID string, sampleA, sampleB int) {
	al.WithFields(logrus.Fields{
		"tournament": tournament,
		"match_id":   matchID,
		"sample_a":   sampleA,
		"sample_b":   sampleB,
	}).Warn("Both players lack history, no stake emitted")
}
