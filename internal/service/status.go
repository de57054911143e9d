package service

import (
	"fmt"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/validators"
	"github.com/sevenoy/GeminiMeds/models"
)

// OnTimeWindow is how far from the scheduled time an intake still counts as
// on time, in either direction.
const OnTimeWindow = 30 * time.Minute

// ComputeLogStatus classifies an intake against the medication's scheduled
// time of day on the date of takenAt.
//
// Manually entered times are always [models.LogStatusManual]. An intake more
// than OnTimeWindow before the schedule is suspect.
func ComputeLogStatus(scheduledTime string, takenAt time.Time, source models.TimeSource) (models.LogStatus, error) {
	if source == models.TimeSourceManual {
		return models.LogStatusManual, nil
	}

	clock, err := time.Parse(validators.ScheduledTimeLayout, scheduledTime)
	if err != nil {
		return "", fmt.Errorf("%w: scheduled time %q", ErrInvalidDataProvided, scheduledTime)
	}

	y, m, d := takenAt.Date()
	scheduledAt := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, takenAt.Location())

	switch delta := takenAt.Sub(scheduledAt); {
	case delta > OnTimeWindow:
		return models.LogStatusLate, nil
	case delta < -OnTimeWindow:
		return models.LogStatusSuspect, nil
	default:
		return models.LogStatusOnTime, nil
	}
}
