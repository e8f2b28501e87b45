package checks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/draftguard/draftguard-agent/internal/models"
)

func check(id, status string) models.Check {
	return models.Check{
		CheckID:   id,
		RawStatus: status,
		Status:    models.ParseStatus(status),
	}
}

func TestBucketizePartitionsEveryRecord(t *testing.T) {
	input := []models.Check{
		check("a", "pending"),
		check("b", "completed"),
		check("c", "processing"),
		check("d", "queued"),
		check("e", "xyz"),
		check("f", "pending"),
	}

	buckets := Bucketize(input)

	require.Equal(t, len(input), buckets.Total())
	require.Len(t, buckets.Pending, 2)
	require.Len(t, buckets.Processing, 3)
	require.Len(t, buckets.Completed, 1)

	seen := map[string]int{}
	for _, bucket := range [][]models.Check{buckets.Pending, buckets.Processing, buckets.Completed} {
		for _, c := range bucket {
			seen[c.CheckID]++
		}
	}
	require.Len(t, seen, len(input))
	for id, count := range seen {
		require.Equal(t, 1, count, "check %s appears in more than one bucket", id)
	}
}

func TestBucketizeClassification(t *testing.T) {
	buckets := Bucketize([]models.Check{
		check("p", "pending"),
		check("c", "completed"),
		check("u", "foo"),
	})

	require.Len(t, buckets.Pending, 1)
	require.Equal(t, "p", buckets.Pending[0].CheckID)
	require.Len(t, buckets.Completed, 1)
	require.Equal(t, "c", buckets.Completed[0].CheckID)
	require.Len(t, buckets.Processing, 1)
	require.Equal(t, "u", buckets.Processing[0].CheckID)
	require.Equal(t, models.StatusUnknown, buckets.Processing[0].Status)
	require.Equal(t, "foo", buckets.Processing[0].RawStatus)
}

func TestBucketizePreservesOrder(t *testing.T) {
	buckets := Bucketize([]models.Check{
		check("1", "pending"),
		check("2", "queued"),
		check("3", "pending"),
		check("4", "checking"),
	})

	require.Equal(t, "1", buckets.Pending[0].CheckID)
	require.Equal(t, "3", buckets.Pending[1].CheckID)
	require.Equal(t, "2", buckets.Processing[0].CheckID)
	require.Equal(t, "4", buckets.Processing[1].CheckID)
}

func TestBucketizeEmptyInput(t *testing.T) {
	buckets := Bucketize(nil)
	require.Equal(t, 0, buckets.Total())
	require.NotNil(t, buckets.Pending)
	require.NotNil(t, buckets.Processing)
	require.NotNil(t, buckets.Completed)
}
