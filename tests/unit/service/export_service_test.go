package service_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
	"mapsmith/internal/export"
	"mapsmith/internal/port"
	"mapsmith/internal/service"
	"mapsmith/internal/session"
	"mapsmith/mocks"
)

var exportCfg = config.ExportConfig{DefaultFilename: "map_data"}

func exportTestSetup(t *testing.T, storage port.ObjectStorage, s3cfg *config.S3Config) (service.ExportService, domain.Session) {
	t.Helper()
	store := newStore()
	if s3cfg == nil {
		s3cfg = &config.S3Config{}
	}
	svc := service.NewExportService(store, storage, &exportCfg, s3cfg)

	sess := store.Create()
	doc := domain.NewMapDocument()
	doc.Name = "My Map"
	doc.Data = []domain.Place{
		{Name: "A", Address: "某路1号", Tags: []string{"咖啡"}, Center: domain.Coordinate{Lat: 31.2, Lng: 121.4}},
		{Name: "B"},
	}
	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		session.SetSaved(s, doc)
		return nil
	})
	require.NoError(t, err)
	return svc, sess
}

func TestExportService_JSON(t *testing.T) {
	svc, sess := exportTestSetup(t, nil, nil)

	artifact, err := svc.ExportJSON(sess.ID, export.Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, "application/json", artifact.ContentType)
	assert.True(t, strings.HasPrefix(artifact.Filename, "My_Map_"))
	assert.True(t, strings.HasSuffix(artifact.Filename, ".json"))
	assert.Contains(t, string(artifact.Data), "某路1号")
}

func TestExportService_CSV(t *testing.T) {
	svc, sess := exportTestSetup(t, nil, nil)

	artifact, err := svc.ExportCSV(sess.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(artifact.Filename, ".csv"))
	assert.True(t, bytes.HasPrefix(artifact.Data, export.BOM))
}

func TestExportService_XLSX(t *testing.T) {
	svc, sess := exportTestSetup(t, nil, nil)

	artifact, err := svc.ExportXLSX(sess.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(artifact.Filename, ".xlsx"))
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("PK")))
}

func TestExportService_EmptyDocument(t *testing.T) {
	store := newStore()
	svc := service.NewExportService(store, nil, &exportCfg, &config.S3Config{})
	sess := store.Create()

	_, err := svc.ExportJSON(sess.ID, export.Options{}, false)
	assert.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestExportService_Archive(t *testing.T) {
	mockStorage := new(mocks.MockObjectStorage)
	s3cfg := &config.S3Config{Bucket: "exports", PresignExpiry: 3600}
	svc, sess := exportTestSetup(t, mockStorage, s3cfg)

	mockStorage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		if in.Bucket != "exports" || !strings.Contains(in.Key, sess.ID.String()) {
			return false
		}
		data, err := io.ReadAll(in.Body)
		return err == nil && strings.Contains(string(data), "My Map")
	})).Return(&port.UploadOutput{Location: "https://exports.s3/key"}, nil)
	mockStorage.On("GetPresignedURL", mock.Anything, "exports", mock.Anything, mock.Anything).
		Return("https://signed.example/key", nil)

	result, err := svc.Archive(context.Background(), sess.ID, service.ArchiveInput{Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "exports", result.Bucket)
	assert.Equal(t, "https://signed.example/key", result.PresignedURL)
	mockStorage.AssertExpectations(t)
}

func TestExportService_Archive_NotConfigured(t *testing.T) {
	svc, sess := exportTestSetup(t, nil, nil)

	_, err := svc.Archive(context.Background(), sess.ID, service.ArchiveInput{Format: "json"})
	assert.ErrorIs(t, err, domain.ErrArchiveNotConfigured)
}

func TestExportService_MapView(t *testing.T) {
	svc, sess := exportTestSetup(t, nil, nil)

	view, err := svc.MapView(sess.ID)
	require.NoError(t, err)
	// One valid point: zoomed-in single-point view centered on it.
	assert.Equal(t, 16, view.Zoom.Initial)
	assert.InDelta(t, 31.2, view.Center.Lat, 1e-9)
}
