package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/remote"
)

// ErrUnknownReportKind indicates the requested report type does not exist.
var ErrUnknownReportKind = errors.New("unknown report kind")

// BlobSource fetches stored files and finished reports as opaque blobs.
type BlobSource interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
	DownloadReport(ctx context.Context, checkID string, kind remote.ReportKind) ([]byte, error)
}

// BlobService proxies stored-file and report downloads. The PDFs are opaque
// blobs; nothing here inspects them.
type BlobService interface {
	File(ctx context.Context, fileID string) ([]byte, error)
	Report(ctx context.Context, checkID, kind string) ([]byte, error)
}

type blobService struct {
	remote BlobSource
	logger zerolog.Logger
}

// NewBlobService constructs a BlobService.
func NewBlobService(remote BlobSource, logger zerolog.Logger) BlobService {
	return &blobService{
		remote: remote,
		logger: logger.With().Str("component", "blob_service").Logger(),
	}
}

func (s *blobService) File(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, errors.New("file id is required")
	}
	return s.remote.DownloadFile(ctx, fileID)
}

func (s *blobService) Report(ctx context.Context, checkID, kind string) ([]byte, error) {
	if checkID == "" {
		return nil, errors.New("check id is required")
	}

	var reportKind remote.ReportKind
	switch kind {
	case "ai":
		reportKind = remote.ReportAI
	case "plagiarism", "plag":
		reportKind = remote.ReportPlagiarism
	default:
		return nil, ErrUnknownReportKind
	}

	return s.remote.DownloadReport(ctx, checkID, reportKind)
}
