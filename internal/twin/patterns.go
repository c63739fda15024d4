package twin

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"symptom-checker-server/internal/models"
)

// MinEvidence is the number of occurrences required before something counts
// as a pattern.
const MinEvidence = 3

// dayBands partition the day for temporal clustering.
var dayBands = []struct {
	name  string
	start int // inclusive hour
	end   int // exclusive hour
}{
	{"night", 0, 6},
	{"morning", 6, 12},
	{"afternoon", 12, 18},
	{"evening", 18, 24},
}

// DiscoverPatterns analyzes a twin's health events and returns the patterns
// found: recurring symptoms, time-of-day clustering, and severity trends.
// Events may be in any order.
func DiscoverPatterns(events []models.HealthEvent) []models.LearnedPattern {
	var patterns []models.LearnedPattern
	patterns = append(patterns, recurrencePatterns(events)...)
	patterns = append(patterns, temporalPatterns(events)...)
	if p := trendPattern(events); p != nil {
		patterns = append(patterns, *p)
	}
	return patterns
}

func symptomOccurrences(events []models.HealthEvent) map[string][]time.Time {
	occ := make(map[string][]time.Time)
	for _, ev := range events {
		for _, s := range lo.Uniq(ev.Symptoms) {
			key := strings.ToLower(strings.TrimSpace(s))
			if key == "" {
				continue
			}
			occ[key] = append(occ[key], ev.EventDate)
		}
	}
	return occ
}

func recurrencePatterns(events []models.HealthEvent) []models.LearnedPattern {
	occ := symptomOccurrences(events)

	symptoms := lo.Keys(occ)
	sort.Strings(symptoms)

	var patterns []models.LearnedPattern
	for _, symptom := range symptoms {
		count := len(occ[symptom])
		if count < MinEvidence {
			continue
		}
		confidence := 50 + 10*float64(count)
		if confidence > 95 {
			confidence = 95
		}
		patterns = append(patterns, models.LearnedPattern{
			PatternType:     models.PatternRecurrence,
			Cause:           symptom,
			Effect:          fmt.Sprintf("recurs across health events (%d occurrences)", count),
			ConfidenceScore: confidence,
			EvidenceCount:   count,
			EffectDirection: "negative",
			IsActive:        true,
		})
	}
	return patterns
}

func temporalPatterns(events []models.HealthEvent) []models.LearnedPattern {
	occ := symptomOccurrences(events)

	symptoms := lo.Keys(occ)
	sort.Strings(symptoms)

	var patterns []models.LearnedPattern
	for _, symptom := range symptoms {
		dates := occ[symptom]
		if len(dates) < MinEvidence {
			continue
		}

		counts := make(map[string]int)
		for _, d := range dates {
			hour := d.Hour()
			for _, band := range dayBands {
				if hour >= band.start && hour < band.end {
					counts[band.name]++
					break
				}
			}
		}

		for _, band := range dayBands {
			share := float64(counts[band.name]) / float64(len(dates))
			if share >= 0.6 {
				patterns = append(patterns, models.LearnedPattern{
					PatternType:     models.PatternTemporal,
					Cause:           band.name + " hours",
					Effect:          symptom,
					ConfidenceScore: share * 100,
					EvidenceCount:   counts[band.name],
					EffectDirection: "negative",
					IsActive:        true,
				})
				break
			}
		}
	}
	return patterns
}

// trendPattern fits a least-squares line over severity against time and
// reports a trend when the slope exceeds 0.1 severity points per day.
func trendPattern(events []models.HealthEvent) *models.LearnedPattern {
	slope, _, n := severityTrend(events)
	if n < MinEvidence {
		return nil
	}
	if slope < 0.1 && slope > -0.1 {
		return nil
	}

	direction := "negative"
	effect := "overall symptom severity is worsening"
	if slope < 0 {
		direction = "positive"
		effect = "overall symptom severity is improving"
	}

	confidence := 60 + 5*float64(n)
	if confidence > 90 {
		confidence = 90
	}

	return &models.LearnedPattern{
		PatternType:     models.PatternTrend,
		Cause:           "severity over time",
		Effect:          effect,
		ConfidenceScore: confidence,
		EvidenceCount:   n,
		EffectDirection: direction,
		IsActive:        true,
	}
}

// severityTrend returns the least-squares slope (severity points per day)
// and intercept over events that carry a severity, plus how many such events
// there were. Time is measured in days since the earliest event.
func severityTrend(events []models.HealthEvent) (slope, intercept float64, n int) {
	scored := lo.Filter(events, func(ev models.HealthEvent, _ int) bool {
		return ev.Severity > 0
	})
	n = len(scored)
	if n < 2 {
		return 0, 0, n
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].EventDate.Before(scored[j].EventDate)
	})
	origin := scored[0].EventDate

	var sumX, sumY, sumXY, sumXX float64
	for _, ev := range scored {
		x := ev.EventDate.Sub(origin).Hours() / 24
		y := float64(ev.Severity)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / fn, n
	}
	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn
	return slope, intercept, n
}
