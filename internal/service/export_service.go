package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
	"mapsmith/internal/export"
	"mapsmith/internal/port"
	"mapsmith/internal/session"
)

// ExportArtifact is a rendered export ready for download.
type ExportArtifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArchiveInput selects what to archive.
type ArchiveInput struct {
	Format           string `json:"format" binding:"required,oneof=json csv xlsx"`
	RemoveEmpty      bool   `json:"remove_empty"`
	RemoveZeroCoords bool   `json:"remove_zero_coords"`
}

// ArchiveResult points at the stored artifact.
type ArchiveResult struct {
	Bucket       string `json:"bucket"`
	Key          string `json:"key"`
	Location     string `json:"location,omitempty"`
	PresignedURL string `json:"presigned_url,omitempty"`
}

// ExportService renders the saved document for download and optionally
// archives artifacts to object storage.
type ExportService interface {
	ExportJSON(sessionID uuid.UUID, opts export.Options, dataOnly bool) (ExportArtifact, error)
	ExportCSV(sessionID uuid.UUID) (ExportArtifact, error)
	ExportXLSX(sessionID uuid.UUID) (ExportArtifact, error)
	MapView(sessionID uuid.UUID) (export.MapView, error)
	Archive(ctx context.Context, sessionID uuid.UUID, input ArchiveInput) (ArchiveResult, error)
}

type exportService struct {
	store   *session.Store
	storage port.ObjectStorage
	cfg     *config.ExportConfig
	s3cfg   *config.S3Config
}

// NewExportService creates a new ExportService implementation. storage may
// be nil when archiving is not configured.
func NewExportService(store *session.Store, storage port.ObjectStorage, cfg *config.ExportConfig, s3cfg *config.S3Config) ExportService {
	return &exportService{store: store, storage: storage, cfg: cfg, s3cfg: s3cfg}
}

func (s *exportService) document(sessionID uuid.UUID) (domain.MapDocument, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return domain.MapDocument{}, err
	}
	if sess.Saved.IsEmpty() {
		return domain.MapDocument{}, domain.ErrNoDocument
	}
	return sess.Saved, nil
}

func (s *exportService) ExportJSON(sessionID uuid.UUID, opts export.Options, dataOnly bool) (ExportArtifact, error) {
	doc, err := s.document(sessionID)
	if err != nil {
		return ExportArtifact{}, err
	}

	var data []byte
	if dataOnly {
		data, err = export.DataOnlyJSON(&doc, opts)
	} else {
		data, err = export.JSON(&doc, opts)
	}
	if err != nil {
		return ExportArtifact{}, fmt.Errorf("rendering json export: %w", err)
	}

	return ExportArtifact{
		Filename:    export.BuildFilename(doc.Name, s.cfg.DefaultFilename, "json"),
		ContentType: export.ContentTypeFor("json"),
		Data:        data,
	}, nil
}

func (s *exportService) ExportCSV(sessionID uuid.UUID) (ExportArtifact, error) {
	doc, err := s.document(sessionID)
	if err != nil {
		return ExportArtifact{}, err
	}

	var buf bytes.Buffer
	if err := export.CSV(&buf, &doc); err != nil {
		return ExportArtifact{}, fmt.Errorf("rendering csv export: %w", err)
	}

	return ExportArtifact{
		Filename:    export.BuildFilename(doc.Name, s.cfg.DefaultFilename, "csv"),
		ContentType: export.ContentTypeFor("csv"),
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) ExportXLSX(sessionID uuid.UUID) (ExportArtifact, error) {
	doc, err := s.document(sessionID)
	if err != nil {
		return ExportArtifact{}, err
	}

	var buf bytes.Buffer
	if err := export.XLSX(&buf, &doc); err != nil {
		return ExportArtifact{}, fmt.Errorf("rendering xlsx export: %w", err)
	}

	return ExportArtifact{
		Filename:    export.BuildFilename(doc.Name, s.cfg.DefaultFilename, "xlsx"),
		ContentType: export.ContentTypeFor("xlsx"),
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) MapView(sessionID uuid.UUID) (export.MapView, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return export.MapView{}, err
	}
	return export.BuildMapView(&sess.Saved), nil
}

// Archive renders the requested format and uploads it to the configured
// bucket under sessions/{id}/exports/.
func (s *exportService) Archive(ctx context.Context, sessionID uuid.UUID, input ArchiveInput) (ArchiveResult, error) {
	if s.storage == nil || !s.s3cfg.Enabled() {
		return ArchiveResult{}, domain.ErrArchiveNotConfigured
	}

	var artifact ExportArtifact
	var err error
	switch input.Format {
	case "csv":
		artifact, err = s.ExportCSV(sessionID)
	case "xlsx":
		artifact, err = s.ExportXLSX(sessionID)
	default:
		artifact, err = s.ExportJSON(sessionID, export.Options{
			RemoveEmpty:      input.RemoveEmpty,
			RemoveZeroCoords: input.RemoveZeroCoords,
		}, false)
	}
	if err != nil {
		return ArchiveResult{}, err
	}

	key := fmt.Sprintf("sessions/%s/exports/%s", sessionID, artifact.Filename)
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		ContentType: artifact.ContentType,
		Body:        bytes.NewReader(artifact.Data),
	})
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("archiving export: %w", err)
	}

	result := ArchiveResult{
		Bucket:   s.s3cfg.Bucket,
		Key:      key,
		Location: out.Location,
	}

	expiry := time.Duration(s.s3cfg.PresignExpiry) * time.Second
	if url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, key, expiry); err == nil {
		result.PresignedURL = url
	} else {
		log.Printf("exportService.Archive: presign failed for %s: %v", key, err)
	}

	log.Printf("exportService.Archive: session %s, stored %s", sessionID, key)
	return result, nil
}
