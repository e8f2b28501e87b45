package checks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/draftguard/draftguard-agent/internal/models"
)

func TestEstimateProgressClampsAtHundred(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := models.Check{DeliveryTime: now.Add(-30 * time.Hour)}

	progress := EstimateProgress(c, now, 24*time.Hour)

	require.Equal(t, 100, progress.Percent)
}

func TestEstimateProgressOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := models.Check{DeliveryTime: now.Add(-2 * time.Hour)}

	progress := EstimateProgress(c, now, 24*time.Hour)

	require.True(t, progress.Overdue)
	require.Negative(t, progress.Remaining)
	require.Equal(t, 2, progress.Hours)
	require.Equal(t, 0, progress.Minutes)
}

func TestEstimateProgressTwentyFiveHoursPast(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := models.Check{DeliveryTime: now.Add(-25 * time.Hour)}

	progress := EstimateProgress(c, now, 24*time.Hour)

	require.Equal(t, 100, progress.Percent)
	require.Negative(t, progress.Remaining.Milliseconds())
	require.True(t, progress.Overdue)
}

func TestEstimateProgressMidWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := models.Check{DeliveryTime: now.Add(12 * time.Hour)}

	progress := EstimateProgress(c, now, 24*time.Hour)

	require.Equal(t, 50, progress.Percent)
	require.False(t, progress.Overdue)
	require.Equal(t, 12, progress.Hours)
}

func TestEstimateProgressFloorsAtZero(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	// Delivery further out than the whole window.
	c := models.Check{DeliveryTime: now.Add(36 * time.Hour)}

	progress := EstimateProgress(c, now, 24*time.Hour)

	require.Equal(t, 0, progress.Percent)
	require.False(t, progress.Overdue)
}

func TestEstimateProgressDefaultWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := models.Check{DeliveryTime: now.Add(12 * time.Hour)}

	progress := EstimateProgress(c, now, 0)

	require.Equal(t, 50, progress.Percent)
}
