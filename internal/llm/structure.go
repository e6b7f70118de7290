package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"mapsmith/internal/domain"
	"mapsmith/internal/port"
)

// Structure sends extracted text to the text model and parses the streamed
// reply into a MapDocument. customPrompt, when non-empty, is appended to the
// system message as additional user requirements.
func (c *Client) Structure(ctx context.Context, text, customPrompt string, onChunk port.StreamFunc) (*domain.MapDocument, error) {
	system := structureSystemPrompt
	if customPrompt != "" {
		system += "\n\nAdditional user requirements:\n" + customPrompt
	}

	messages := []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: buildStructurePrompt(text)},
	}

	full, err := c.streamChat(ctx, c.textModel, messages, onChunk)
	if err != nil {
		return nil, fmt.Errorf("structuring text: %w", err)
	}

	return parseDocument(full)
}

// Edit asks the text model to apply an instruction to the current document
// and parses the streamed reply as the full replacement document.
func (c *Client) Edit(ctx context.Context, doc *domain.MapDocument, instruction string, onChunk port.StreamFunc) (*domain.MapDocument, error) {
	current, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling current document: %w", err)
	}

	messages := []chatMessage{
		{Role: "system", Content: editSystemPrompt},
		{Role: "user", Content: buildEditPrompt(string(current), instruction)},
	}

	full, err := c.streamChat(ctx, c.textModel, messages, onChunk)
	if err != nil {
		return nil, fmt.Errorf("editing document: %w", err)
	}

	return parseDocument(full)
}

// parseDocument parses accumulated model output as a MapDocument. If the raw
// text is not valid JSON it tries once more with the outermost {...} block
// carved out; anything else surfaces ErrMalformedModelOutput.
func parseDocument(raw string) (*domain.MapDocument, error) {
	doc := domain.NewMapDocument()
	if err := json.Unmarshal([]byte(raw), &doc); err == nil {
		return &doc, nil
	}

	carved := carveJSONObject(raw)
	if carved != "" {
		doc = domain.NewMapDocument()
		if err := json.Unmarshal([]byte(carved), &doc); err == nil {
			return &doc, nil
		}
	}

	return nil, fmt.Errorf("%w (raw: %s)", domain.ErrMalformedModelOutput, truncate(raw, 500))
}
