package twin

import (
	"sort"
	"time"

	"symptom-checker-server/internal/models"
)

// TrajectoryPoint is one predicted point on the health trajectory.
type TrajectoryPoint struct {
	Date     time.Time `json:"date"`
	Severity float64   `json:"severity"`
}

// Trajectory is the predicted severity curve plus its summary.
type Trajectory struct {
	Points           []TrajectoryPoint `json:"points"`
	SlopePerDay      float64           `json:"slopePerDay"`
	Direction        string            `json:"direction"` // improving, stable, worsening
	SampleSize       int               `json:"sampleSize"`
	HorizonDays      int               `json:"horizonDays"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	InsufficientData bool              `json:"insufficientData,omitempty"`
}

// ProjectTrajectory extrapolates the severity trend over the requested
// horizon, one point per day, clamped to the 0-10 severity scale. With too
// few scored events the trajectory is flagged as insufficient.
func ProjectTrajectory(events []models.HealthEvent, horizonDays int) Trajectory {
	now := time.Now()
	traj := Trajectory{HorizonDays: horizonDays, GeneratedAt: now}

	slope, intercept, n := severityTrend(events)
	traj.SlopePerDay = slope
	traj.SampleSize = n

	if n < MinEvidence {
		traj.InsufficientData = true
		traj.Direction = "stable"
		return traj
	}

	switch {
	case slope >= 0.1:
		traj.Direction = "worsening"
	case slope <= -0.1:
		traj.Direction = "improving"
	default:
		traj.Direction = "stable"
	}

	// Days from the earliest scored event to now anchor the projection.
	origin := earliestScored(events)
	baseDays := now.Sub(origin).Hours() / 24

	for day := 1; day <= horizonDays; day++ {
		severity := intercept + slope*(baseDays+float64(day))
		if severity < 0 {
			severity = 0
		}
		if severity > 10 {
			severity = 10
		}
		traj.Points = append(traj.Points, TrajectoryPoint{
			Date:     now.AddDate(0, 0, day),
			Severity: severity,
		})
	}
	return traj
}

func earliestScored(events []models.HealthEvent) time.Time {
	var dates []time.Time
	for _, ev := range events {
		if ev.Severity > 0 {
			dates = append(dates, ev.EventDate)
		}
	}
	if len(dates) == 0 {
		return time.Now()
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates[0]
}
