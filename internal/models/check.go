package models

import "time"

// Status is the client-side classification of a check's lifecycle stage.
// The server owns the raw status vocabulary; anything the client does not
// recognise maps to StatusUnknown and still displays alongside processing
// checks, so a new server-side value is visible rather than silently aliased.
type Status int

const (
	// StatusUnknown marks a raw status value this client has never seen.
	StatusUnknown Status = iota
	// StatusPending indicates the check is queued and has not started.
	StatusPending
	// StatusProcessing indicates the check is being worked on.
	StatusProcessing
	// StatusCompleted indicates reports are available.
	StatusCompleted
)

// ParseStatus maps a server-supplied status string to a Status. Unrecognised
// values return StatusUnknown; callers keep the raw string for display.
func ParseStatus(raw string) Status {
	switch raw {
	case "pending":
		return StatusPending
	case "completed":
		return StatusCompleted
	case "processing", "queued", "checking":
		return StatusProcessing
	default:
		return StatusUnknown
	}
}

// String returns the canonical label for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// InProgress reports whether the check still occupies the processing bucket.
// Unknown values count as in progress: the server is the source of truth for
// valid statuses and an unfamiliar one must not be dropped.
func (s Status) InProgress() bool {
	return s == StatusProcessing || s == StatusUnknown
}

// FileMeta describes the uploaded document a check was created for. The
// fields are a read-only projection; this client never mutates them.
type FileMeta struct {
	FileID     string `json:"file_id"`
	Name       string `json:"name"`
	StoredName string `json:"stored_name"`
	Size       int64  `json:"size"`
	WordCount  int    `json:"word_count"`
}

// ReportRef points at the finished reports for a completed check. It is nil
// until the check completes; absence means "not yet available", not an error.
type ReportRef struct {
	ReportID        string   `json:"report_id"`
	AIScore         *float64 `json:"ai_score"`
	PlagiarismScore *float64 `json:"plagiarism_score"`
}

// Check is a read-only projection of one submitted document's checking state,
// observed purely through polling. Status transitions only converge forward
// to completed; the client must not assume monotonic transitions but may rely
// on eventual convergence.
type Check struct {
	CheckID      string     `json:"check_id"`
	RawStatus    string     `json:"raw_status"`
	Status       Status     `json:"status"`
	Priority     string     `json:"priority"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	DeliveryTime time.Time  `json:"delivery_time"`
	File         FileMeta   `json:"file"`
	Report       *ReportRef `json:"report,omitempty"`
}

// Completed reports whether the check's reports are available.
func (c Check) Completed() bool {
	return c.Status == StatusCompleted
}
