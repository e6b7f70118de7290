package port

import (
	"context"

	"mapsmith/internal/domain"
)

// StreamFunc receives incremental text fragments as a model reply streams in.
type StreamFunc func(chunk string)

// ExtractInput carries the data needed for OCR text extraction.
type ExtractInput struct {
	ImageBytes  []byte
	ContentType string
	// Instructions optionally replaces the default extraction instruction.
	Instructions string
}

// TextExtractor abstracts vision-model OCR over an image.
type TextExtractor interface {
	ExtractText(ctx context.Context, input ExtractInput, onChunk StreamFunc) (string, error)
}

// DocumentStructurer abstracts LLM-based structuring of extracted text into
// a map document, and instruction-driven edits of an existing document.
type DocumentStructurer interface {
	Structure(ctx context.Context, text, customPrompt string, onChunk StreamFunc) (*domain.MapDocument, error)
	Edit(ctx context.Context, doc *domain.MapDocument, instruction string, onChunk StreamFunc) (*domain.MapDocument, error)
}
