package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/checks"
	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/models"
	"github.com/draftguard/draftguard-agent/internal/poller"
)

// SnapshotSource is the polling controller surface the dashboard reads from.
type SnapshotSource interface {
	Snapshot() poller.Snapshot
	Refresh(ctx context.Context, manual bool)
	Subscribe() (<-chan poller.Snapshot, func())
}

// DashboardService turns poller snapshots into presentation responses.
// Progress is re-derived from the clock on every read, so it stays smooth
// between network refreshes without any extra fetching.
type DashboardService interface {
	Dashboard() dto.DashboardResponse
	Refresh(ctx context.Context, manual bool) dto.DashboardResponse
	Watch() (<-chan dto.DashboardResponse, func())
}

type dashboardService struct {
	source SnapshotSource
	window time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewDashboardService constructs a DashboardService. window is the assumed
// total turnaround used for the linear progress estimate.
func NewDashboardService(source SnapshotSource, window time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		source: source,
		window: window,
		logger: logger.With().Str("component", "dashboard_service").Logger(),
		now:    time.Now,
	}
}

func (s *dashboardService) Dashboard() dto.DashboardResponse {
	return s.render(s.source.Snapshot())
}

func (s *dashboardService) Refresh(ctx context.Context, manual bool) dto.DashboardResponse {
	s.source.Refresh(ctx, manual)
	return s.render(s.source.Snapshot())
}

// Watch streams a rendered dashboard for every applied snapshot. The cancel
// function detaches the subscription; the returned channel closes afterwards.
func (s *dashboardService) Watch() (<-chan dto.DashboardResponse, func()) {
	snapshots, cancel := s.source.Subscribe()
	out := make(chan dto.DashboardResponse, 8)

	go func() {
		defer close(out)
		for snapshot := range snapshots {
			select {
			case out <- s.render(snapshot):
			default:
			}
		}
	}()

	return out, cancel
}

func (s *dashboardService) render(snapshot poller.Snapshot) dto.DashboardResponse {
	now := s.now()

	response := dto.DashboardResponse{
		Pending:          s.views(snapshot.Buckets.Pending, now),
		Processing:       s.views(snapshot.Buckets.Processing, now),
		Completed:        s.views(snapshot.Buckets.Completed, now),
		FetchedAt:        snapshot.FetchedAt,
		Stale:            snapshot.Stale,
		Manual:           snapshot.Manual,
		NotAuthenticated: snapshot.NotAuthenticated,
		LastError:        snapshot.LastError,
		ErrorKind:        snapshot.ErrorKind,
	}

	response.Summary = dto.CheckSummary{
		Total:      snapshot.Buckets.Total(),
		Pending:    len(response.Pending),
		Processing: len(response.Processing),
		Completed:  len(response.Completed),
	}
	for _, view := range response.Processing {
		if view.Overdue {
			response.Summary.Overdue++
		}
	}

	return response
}

func (s *dashboardService) views(list []models.Check, now time.Time) []dto.CheckView {
	views := make([]dto.CheckView, 0, len(list))
	for _, check := range list {
		views = append(views, s.view(check, now))
	}
	return views
}

func (s *dashboardService) view(check models.Check, now time.Time) dto.CheckView {
	progress := checks.EstimateProgress(check, now, s.window)

	view := dto.CheckView{
		CheckID:         check.CheckID,
		Status:          check.Status.String(),
		RawStatus:       check.RawStatus,
		Priority:        check.Priority,
		FileName:        check.File.Name,
		FileSize:        check.File.Size,
		WordCount:       check.File.WordCount,
		SubmittedAt:     check.SubmittedAt,
		DeliveryTime:    check.DeliveryTime,
		ProgressPercent: progress.Percent,
		RemainingMs:     progress.Remaining.Milliseconds(),
		HoursLeft:       progress.Hours,
		MinutesLeft:     progress.Minutes,
		Overdue:         progress.Overdue,
	}

	if check.Report != nil {
		view.ReportID = check.Report.ReportID
		view.AIScore = check.Report.AIScore
		view.PlagiarismScore = check.Report.PlagiarismScore
		view.ReportAvailable = true
	}

	if check.Completed() {
		view.ProgressPercent = 100
		view.Overdue = false
	}

	return view
}
