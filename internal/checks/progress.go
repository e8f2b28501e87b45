package checks

import (
	"time"

	"github.com/draftguard/draftguard-agent/internal/models"
)

// DefaultProgressWindow is the assumed total turnaround for a check when no
// window is configured.
const DefaultProgressWindow = 24 * time.Hour

// Progress is the presentation-side estimate for one in-flight check. It is
// a linear function of the delivery timestamp, not a server-reported value:
// cosmetic progress, not truth.
type Progress struct {
	Percent   int           `json:"percent"`
	Remaining time.Duration `json:"remaining_ms"`
	Hours     int           `json:"hours"`
	Minutes   int           `json:"minutes"`
	Overdue   bool          `json:"overdue"`
}

// EstimateProgress derives the progress percentage and time remaining for a
// check from its delivery time. Percent is elapsed-over-window clamped to
// [0, 100]. Remaining is signed; a negative value means the estimate has been
// exceeded and Overdue is set so the caller can flag it rather than hide it.
func EstimateProgress(check models.Check, now time.Time, window time.Duration) Progress {
	if window <= 0 {
		window = DefaultProgressWindow
	}

	remaining := check.DeliveryTime.Sub(now)
	elapsed := window - remaining

	percent := int(elapsed * 100 / window)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	abs := remaining
	if abs < 0 {
		abs = -abs
	}

	return Progress{
		Percent:   percent,
		Remaining: remaining,
		Hours:     int(abs / time.Hour),
		Minutes:   int(abs % time.Hour / time.Minute),
		Overdue:   remaining < 0,
	}
}
