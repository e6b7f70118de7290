package llm

import (
	"context"
	"fmt"

	"mapsmith/internal/port"
)

// ExtractText runs the vision model over an image and returns the extracted
// plain text. The reply streams in; onChunk receives each fragment.
func (c *Client) ExtractText(ctx context.Context, input port.ExtractInput, onChunk port.StreamFunc) (string, error) {
	instruction := input.Instructions
	if instruction == "" {
		instruction = defaultOCRInstruction
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "image/png"
	}

	messages := []chatMessage{
		{
			Role:    "system",
			Content: []map[string]interface{}{textBlock(ocrSystemPrompt)},
		},
		{
			Role: "user",
			Content: []map[string]interface{}{
				imageBlock(input.ImageBytes, contentType),
				textBlock(instruction),
			},
		},
	}

	text, err := c.streamChat(ctx, c.ocrModel, messages, onChunk)
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	return text, nil
}
