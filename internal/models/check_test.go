package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"pending", StatusPending},
		{"completed", StatusCompleted},
		{"processing", StatusProcessing},
		{"queued", StatusProcessing},
		{"checking", StatusProcessing},
		{"xyz", StatusUnknown},
		{"", StatusUnknown},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, ParseStatus(tc.raw), "raw %q", tc.raw)
	}
}

func TestStatusInProgress(t *testing.T) {
	require.True(t, StatusProcessing.InProgress())
	require.True(t, StatusUnknown.InProgress())
	require.False(t, StatusPending.InProgress())
	require.False(t, StatusCompleted.InProgress())
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "pending", StatusPending.String())
	require.Equal(t, "processing", StatusProcessing.String())
	require.Equal(t, "completed", StatusCompleted.String())
	require.Equal(t, "unknown", StatusUnknown.String())
}
