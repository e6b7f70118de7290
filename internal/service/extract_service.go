package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
	"mapsmith/internal/port"
	"mapsmith/internal/session"
	"mapsmith/internal/textutil"
	"mapsmith/internal/validator"
)

// fetchUserAgent identifies URL fetches to remote image hosts.
const fetchUserAgent = "mapsmith/1.0"

// ImageUploadInput is the DTO for image extraction requests.
type ImageUploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
	// Instructions optionally replaces the default extraction instruction.
	Instructions string
}

// ExtractService turns source material (images, URLs, pasted text, JSON
// imports) into session state.
type ExtractService interface {
	ExtractImage(ctx context.Context, sessionID uuid.UUID, input ImageUploadInput) (string, error)
	ExtractImageURL(ctx context.Context, sessionID uuid.UUID, imageURL, instructions string) (string, error)
	SetText(sessionID uuid.UUID, text string) (string, error)
	GetText(sessionID uuid.UUID) (string, error)
	ImportJSON(sessionID uuid.UUID, raw []byte) (domain.MapDocument, error)
}

type extractService struct {
	store     *session.Store
	extractor port.TextExtractor
	cfg       *config.UploadConfig
	client    *http.Client
}

// NewExtractService creates a new ExtractService implementation.
func NewExtractService(store *session.Store, extractor port.TextExtractor, cfg *config.UploadConfig) ExtractService {
	return &extractService{
		store:     store,
		extractor: extractor,
		cfg:       cfg,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *extractService) ExtractImage(ctx context.Context, sessionID uuid.UUID, input ImageUploadInput) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	if !s.allowedFormat(ext) {
		return "", domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	detectedType := http.DetectContentType(data)
	if !strings.HasPrefix(detectedType, "image/") {
		return "", domain.ErrUnsupportedFileType
	}

	log.Printf("extractService.ExtractImage: session %s, %s (%s, %d bytes)",
		sessionID, input.Header.Filename, detectedType, len(data))

	return s.extract(ctx, sessionID, data, detectedType, input.Instructions)
}

func (s *extractService) ExtractImageURL(ctx context.Context, sessionID uuid.UUID, imageURL, instructions string) (string, error) {
	data, contentType, err := s.fetchImage(ctx, imageURL)
	if err != nil {
		return "", err
	}

	log.Printf("extractService.ExtractImageURL: session %s, %s (%s, %d bytes)",
		sessionID, imageURL, contentType, len(data))

	return s.extract(ctx, sessionID, data, contentType, instructions)
}

func (s *extractService) extract(ctx context.Context, sessionID uuid.UUID, data []byte, contentType, instructions string) (string, error) {
	// Check the session exists before spending an LLM call on it.
	if _, err := s.store.Get(sessionID); err != nil {
		return "", err
	}

	text, err := s.extractor.ExtractText(ctx, port.ExtractInput{
		ImageBytes:   data,
		ContentType:  contentType,
		Instructions: instructions,
	}, nil)
	if err != nil {
		return "", err
	}

	cleaned := textutil.CleanText(text)
	_, err = s.store.Update(sessionID, func(sess *domain.Session) error {
		session.SetExtractedText(sess, cleaned)
		return nil
	})
	if err != nil {
		return "", err
	}
	return cleaned, nil
}

func (s *extractService) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrImageFetchFailed, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrImageFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: unexpected status %d", domain.ErrImageFetchFailed, resp.StatusCode)
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrImageFetchFailed, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", domain.ErrFileTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", domain.ErrUnsupportedFileType
	}

	return data, contentType, nil
}

func (s *extractService) SetText(sessionID uuid.UUID, text string) (string, error) {
	cleaned := textutil.CleanText(text)
	_, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		session.SetExtractedText(sess, cleaned)
		return nil
	})
	if err != nil {
		return "", err
	}
	return cleaned, nil
}

func (s *extractService) GetText(sessionID uuid.UUID) (string, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return "", err
	}
	return sess.ExtractedText, nil
}

// ImportJSON validates raw JSON and installs it as the saved document.
func (s *extractService) ImportJSON(sessionID uuid.UUID, raw []byte) (domain.MapDocument, error) {
	doc, err := validator.ParseDocument(raw)
	if err != nil {
		return domain.MapDocument{}, err
	}

	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		session.SetSaved(sess, *doc)
		session.DiscardEdits(sess)
		return nil
	})
	if err != nil {
		return domain.MapDocument{}, err
	}

	log.Printf("extractService.ImportJSON: session %s, %d places", sessionID, len(updated.Saved.Data))
	return updated.Saved, nil
}

func (s *extractService) allowedFormat(ext string) bool {
	for _, f := range s.cfg.AllowedFormats {
		if strings.EqualFold(f, ext) {
			return true
		}
	}
	return false
}
