package dto

import "time"

// DashboardResponse is the bucketized check snapshot served to local
// consumers, with per-item progress derived at read time.
type DashboardResponse struct {
	Summary          CheckSummary `json:"summary"`
	Pending          []CheckView  `json:"pending"`
	Processing       []CheckView  `json:"processing"`
	Completed        []CheckView  `json:"completed"`
	FetchedAt        time.Time    `json:"fetched_at"`
	Stale            bool         `json:"stale"`
	Manual           bool         `json:"manual"`
	NotAuthenticated bool         `json:"not_authenticated"`
	LastError        string       `json:"last_error,omitempty"`
	ErrorKind        string       `json:"error_kind,omitempty"`
}

// CheckSummary captures aggregate counts across the three buckets.
type CheckSummary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// CheckView describes one check as the dashboard renders it.
type CheckView struct {
	CheckID         string    `json:"check_id"`
	Status          string    `json:"status"`
	RawStatus       string    `json:"raw_status"`
	Priority        string    `json:"priority"`
	FileName        string    `json:"file_name"`
	FileSize        int64     `json:"file_size"`
	WordCount       int       `json:"word_count"`
	SubmittedAt     time.Time `json:"submitted_at"`
	DeliveryTime    time.Time `json:"delivery_time"`
	ProgressPercent int       `json:"progress_percent"`
	RemainingMs     int64     `json:"remaining_ms"`
	HoursLeft       int       `json:"hours_left"`
	MinutesLeft     int       `json:"minutes_left"`
	Overdue         bool      `json:"overdue"`
	ReportID        string    `json:"report_id,omitempty"`
	AIScore         *float64  `json:"ai_score,omitempty"`
	PlagiarismScore *float64  `json:"plagiarism_score,omitempty"`
	ReportAvailable bool      `json:"report_available"`
}

// SubmitResponse is returned after a document is accepted for checking.
type SubmitResponse struct {
	CheckID      string    `json:"check_id"`
	Status       string    `json:"status"`
	FileName     string    `json:"file_name"`
	DeliveryTime time.Time `json:"delivery_time"`
}
