// Package checks holds the pure view-model math for the dashboard: status
// bucketizing and delivery-progress estimation. Nothing here touches the
// network or a clock it was not handed.
package checks

import "github.com/draftguard/draftguard-agent/internal/models"

// Buckets is a derived partition of a check list by status. It is recomputed
// from raw statuses on every fetch and never mutated in place.
type Buckets struct {
	Pending    []models.Check `json:"pending"`
	Processing []models.Check `json:"processing"`
	Completed  []models.Check `json:"completed"`
}

// Total returns the number of checks across all buckets.
func (b Buckets) Total() int {
	return len(b.Pending) + len(b.Processing) + len(b.Completed)
}

// Bucketize partitions checks into exactly three order-preserving buckets.
// Every input record lands in exactly one bucket; no record is dropped.
// Unrecognised statuses go to processing — the server owns the status
// vocabulary, so an unfamiliar value is not an error here.
func Bucketize(list []models.Check) Buckets {
	buckets := Buckets{
		Pending:    make([]models.Check, 0, len(list)),
		Processing: make([]models.Check, 0, len(list)),
		Completed:  make([]models.Check, 0, len(list)),
	}

	for _, check := range list {
		switch check.Status {
		case models.StatusPending:
			buckets.Pending = append(buckets.Pending, check)
		case models.StatusCompleted:
			buckets.Completed = append(buckets.Completed, check)
		default:
			buckets.Processing = append(buckets.Processing, check)
		}
	}

	return buckets
}
