package domain

import "errors"

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrNoExtractedText       = errors.New("no extracted text available")
	ErrNoDocument            = errors.New("no document data available")
	ErrNoPendingEdits        = errors.New("no pending edits to apply")
	ErrMalformedModelOutput  = errors.New("model output is not valid JSON")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrImageFetchFailed      = errors.New("image download failed")
	ErrIndexOutOfRange       = errors.New("place index out of range")
	ErrMissingAddress        = errors.New("place has no address to geocode")
	ErrInvalidDocument       = errors.New("document does not match expected structure")
	ErrGeocoderNotConfigured = errors.New("geocoder is not configured")
	ErrArchiveNotConfigured  = errors.New("export archive storage is not configured")
)
