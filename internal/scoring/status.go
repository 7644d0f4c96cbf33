// Package scoring holds the pure calculation core of the leaderboard engine:
// effective round status resolution, criterion score validation, judge/AI
// blending and round weighting. Every function here is deterministic and free
// of I/O so results are reproducible bit-for-bit.
package scoring

import (
	"time"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// manualOverrides is the priority table for stored statuses that always win
// over the scheduled time window once an organizer has set them, even while
// auto time control is enabled.
var manualOverrides = map[string]struct{}{
	models.RoundStatusDraft:     {},
	models.RoundStatusJudging:   {},
	models.RoundStatusPublished: {},
}

// EffectiveStatus derives a round's actual gating state at the given instant.
// It must be re-evaluated on every access; callers must not cache the result
// across requests.
func EffectiveStatus(round models.Round, now time.Time) string {
	if !round.AutoTimeControlEnabled {
		return round.Status
	}

	if _, overridden := manualOverrides[round.Status]; overridden {
		return round.Status
	}

	// Never time-gate without both bounds.
	if round.StartTime == nil || round.EndTime == nil {
		return round.Status
	}

	switch {
	case now.Before(*round.StartTime):
		return models.RoundStatusDraft
	case now.After(*round.EndTime):
		return models.RoundStatusSubmissionClosed
	default:
		return models.RoundStatusOpen
	}
}
