package twin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-checker-server/internal/models"
)

func eventAt(t time.Time, severity int, symptoms ...string) models.HealthEvent {
	return models.HealthEvent{
		EventType: models.EventTypeSymptom,
		EventDate: t,
		Symptoms:  symptoms,
		Severity:  severity,
	}
}

func TestDiscoverPatternsRecurrence(t *testing.T) {
	base := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	events := []models.HealthEvent{
		eventAt(base, 0, "headache"),
		eventAt(base.AddDate(0, 0, 2), 0, "headache"),
		eventAt(base.AddDate(0, 0, 5), 0, "headache", "nausea"),
	}

	patterns := DiscoverPatterns(events)

	var recurrence []models.LearnedPattern
	for _, p := range patterns {
		if p.PatternType == models.PatternRecurrence {
			recurrence = append(recurrence, p)
		}
	}
	// Headache recurs three times; nausea only once.
	require.Len(t, recurrence, 1)
	assert.Equal(t, "headache", recurrence[0].Cause)
	assert.Equal(t, 3, recurrence[0].EvidenceCount)
	assert.InDelta(t, 80, recurrence[0].ConfidenceScore, 0.01)
}

func TestRecurrenceConfidenceCapped(t *testing.T) {
	base := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	var events []models.HealthEvent
	for i := 0; i < 10; i++ {
		events = append(events, eventAt(base.AddDate(0, 0, i), 0, "cough"))
	}

	patterns := recurrencePatterns(events)
	require.Len(t, patterns, 1)
	assert.InDelta(t, 95, patterns[0].ConfidenceScore, 0.01)
}

func TestDiscoverPatternsTemporalClustering(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []models.HealthEvent{
		eventAt(day.Add(20*time.Hour), 0, "headache"),
		eventAt(day.AddDate(0, 0, 1).Add(21*time.Hour), 0, "headache"),
		eventAt(day.AddDate(0, 0, 2).Add(19*time.Hour), 0, "headache"),
		eventAt(day.AddDate(0, 0, 3).Add(9*time.Hour), 0, "headache"),
	}

	patterns := temporalPatterns(events)
	require.Len(t, patterns, 1)
	assert.Equal(t, "evening hours", patterns[0].Cause)
	assert.Equal(t, "headache", patterns[0].Effect)
	assert.Equal(t, 3, patterns[0].EvidenceCount)
	assert.InDelta(t, 75, patterns[0].ConfidenceScore, 0.01)
}

func TestTemporalNoDominantBand(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []models.HealthEvent{
		eventAt(day.Add(2*time.Hour), 0, "headache"),
		eventAt(day.AddDate(0, 0, 1).Add(9*time.Hour), 0, "headache"),
		eventAt(day.AddDate(0, 0, 2).Add(15*time.Hour), 0, "headache"),
		eventAt(day.AddDate(0, 0, 3).Add(21*time.Hour), 0, "headache"),
	}

	assert.Empty(t, temporalPatterns(events))
}

func TestSeverityTrendSlope(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Severity climbs exactly one point per day.
	events := []models.HealthEvent{
		eventAt(base, 2),
		eventAt(base.AddDate(0, 0, 1), 3),
		eventAt(base.AddDate(0, 0, 2), 4),
		eventAt(base.AddDate(0, 0, 3), 5),
	}

	slope, intercept, n := severityTrend(events)
	assert.Equal(t, 4, n)
	assert.InDelta(t, 1.0, slope, 0.001)
	assert.InDelta(t, 2.0, intercept, 0.001)
}

func TestSeverityTrendIgnoresUnscoredEvents(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []models.HealthEvent{
		eventAt(base, 5),
		eventAt(base.AddDate(0, 0, 1), 0), // unscored
		eventAt(base.AddDate(0, 0, 2), 5),
	}

	_, _, n := severityTrend(events)
	assert.Equal(t, 2, n)
}

func TestTrendPatternWorsening(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []models.HealthEvent{
		eventAt(base, 2),
		eventAt(base.AddDate(0, 0, 1), 4),
		eventAt(base.AddDate(0, 0, 2), 6),
	}

	p := trendPattern(events)
	require.NotNil(t, p)
	assert.Equal(t, models.PatternTrend, p.PatternType)
	assert.Equal(t, "negative", p.EffectDirection)
	assert.Contains(t, p.Effect, "worsening")
}

func TestTrendPatternImproving(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []models.HealthEvent{
		eventAt(base, 8),
		eventAt(base.AddDate(0, 0, 1), 5),
		eventAt(base.AddDate(0, 0, 2), 2),
	}

	p := trendPattern(events)
	require.NotNil(t, p)
	assert.Equal(t, "positive", p.EffectDirection)
	assert.Contains(t, p.Effect, "improving")
}

func TestTrendPatternStable(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []models.HealthEvent{
		eventAt(base, 4),
		eventAt(base.AddDate(0, 0, 1), 4),
		eventAt(base.AddDate(0, 0, 2), 4),
	}

	assert.Nil(t, trendPattern(events))
}

func TestProjectTrajectoryInsufficientData(t *testing.T) {
	traj := ProjectTrajectory([]models.HealthEvent{
		eventAt(time.Now(), 5),
	}, 30)

	assert.True(t, traj.InsufficientData)
	assert.Equal(t, "stable", traj.Direction)
	assert.Empty(t, traj.Points)
}

func TestProjectTrajectoryWorsening(t *testing.T) {
	now := time.Now()
	events := []models.HealthEvent{
		eventAt(now.AddDate(0, 0, -4), 2),
		eventAt(now.AddDate(0, 0, -2), 4),
		eventAt(now, 6),
	}

	traj := ProjectTrajectory(events, 7)
	assert.False(t, traj.InsufficientData)
	assert.Equal(t, "worsening", traj.Direction)
	require.Len(t, traj.Points, 7)

	// Severity keeps rising until it saturates at the top of the scale.
	assert.GreaterOrEqual(t, traj.Points[1].Severity, traj.Points[0].Severity)
	for _, p := range traj.Points {
		assert.LessOrEqual(t, p.Severity, 10.0)
		assert.GreaterOrEqual(t, p.Severity, 0.0)
	}
}
