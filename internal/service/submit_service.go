package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/models"
)

// ErrUploadTooLarge indicates the document exceeds the configured size cap.
var ErrUploadTooLarge = errors.New("document exceeds maximum upload size")

// ErrUploadTypeNotAllowed indicates the document is not a supported type.
var ErrUploadTypeNotAllowed = errors.New("document type is not supported")

var allowedDocumentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.oasis.opendocument.text",
	"text/plain",
}

// CheckSubmitter forwards a validated document to the remote service.
type CheckSubmitter interface {
	SubmitCheck(ctx context.Context, filename string, file io.Reader) (models.Check, error)
}

// Refresher forces the polling controller to re-fetch, so a freshly
// submitted check shows up without waiting for the next tick.
type Refresher interface {
	Refresh(ctx context.Context, manual bool)
}

// SubmitService validates and forwards document submissions.
type SubmitService interface {
	Submit(ctx context.Context, file *multipart.FileHeader) (dto.SubmitResponse, error)
}

type submitService struct {
	remote   CheckSubmitter
	poller   Refresher
	maxBytes int64
	logger   zerolog.Logger
}

// NewSubmitService constructs a SubmitService with the given upload cap.
func NewSubmitService(remote CheckSubmitter, poller Refresher, maxBytes int64, logger zerolog.Logger) SubmitService {
	return &submitService{
		remote:   remote,
		poller:   poller,
		maxBytes: maxBytes,
		logger:   logger.With().Str("component", "submit_service").Logger(),
	}
}

func (s *submitService) Submit(ctx context.Context, file *multipart.FileHeader) (dto.SubmitResponse, error) {
	if file == nil {
		return dto.SubmitResponse{}, fmt.Errorf("document file is required")
	}

	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return dto.SubmitResponse{}, ErrUploadTooLarge
	}

	reader, err := file.Open()
	if err != nil {
		return dto.SubmitResponse{}, fmt.Errorf("failed to open document: %w", err)
	}
	defer reader.Close()

	if err := validateDocumentType(reader); err != nil {
		return dto.SubmitResponse{}, err
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return dto.SubmitResponse{}, fmt.Errorf("failed to rewind document: %w", err)
	}

	check, err := s.remote.SubmitCheck(ctx, file.Filename, reader)
	if err != nil {
		return dto.SubmitResponse{}, err
	}

	s.logger.Info().Str("check_id", check.CheckID).Str("file", file.Filename).Msg("document submitted")
	s.poller.Refresh(ctx, true)

	return dto.SubmitResponse{
		CheckID:      check.CheckID,
		Status:       check.Status.String(),
		FileName:     file.Filename,
		DeliveryTime: check.DeliveryTime,
	}, nil
}

// validateDocumentType sniffs the content rather than trusting the filename
// or the declared Content-Type.
func validateDocumentType(reader io.Reader) error {
	detected, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect document type: %w", err)
	}

	for _, allowed := range allowedDocumentTypes {
		if detected.Is(allowed) {
			return nil
		}
	}

	return ErrUploadTypeNotAllowed
}
