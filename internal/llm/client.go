// Package llm talks to an OpenAI-compatible chat-completions endpoint for
// OCR text extraction and document structuring. Replies are consumed as a
// stream of SSE chunks and accumulated into the full message text.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mapsmith/internal/config"
	"mapsmith/internal/port"
)

// Client implements port.TextExtractor and port.DocumentStructurer against
// an OpenAI-compatible chat-completions API.
type Client struct {
	endpoint  string
	apiKey    string
	ocrModel  string
	textModel string
	client    *http.Client
}

// NewClient creates a Client from the LLM config.
func NewClient(cfg *config.LLMConfig) *Client {
	return NewClientWithEndpoint(cfg, strings.TrimSuffix(cfg.BaseURL, "/")+"/chat/completions")
}

// NewClientWithEndpoint creates a Client pointing at a custom API endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.LLMConfig, endpoint string) *Client {
	ocrModel := cfg.OCRModel
	if ocrModel == "" {
		ocrModel = "qwen-vl-max-latest"
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = "qwen-max-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint:  endpoint,
		apiKey:    cfg.APIKey,
		ocrModel:  ocrModel,
		textModel: textModel,
		client:    &http.Client{Timeout: timeout},
	}
}

// chatMessage is one entry of the messages array. Content is either a plain
// string or a slice of content blocks.
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// streamChunk models one SSE data event of a streaming chat completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// streamChat sends a streaming chat-completion request and concatenates the
// delta fragments until the terminating [DONE] event. onChunk, when non-nil,
// is invoked once per fragment for progressive display.
func (c *Client) streamChat(ctx context.Context, model string, messages []chatMessage, onChunk port.StreamFunc) (string, error) {
	reqBody := map[string]interface{}{
		"model":    model,
		"messages": messages,
		"stream":   true,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		baseErr := fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", NewRateLimitError("chat", baseErr, retryAfter)
		}
		return "", baseErr
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	// Delta lines can exceed the default 64KB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		if payload == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", fmt.Errorf("decoding stream chunk: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		full.WriteString(content)
		if onChunk != nil {
			onChunk(content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stream: %w", err)
	}

	return full.String(), nil
}

// textBlock builds a text content block.
func textBlock(text string) map[string]interface{} {
	return map[string]interface{}{"type": "text", "text": text}
}

// imageBlock builds an image_url content block from raw image bytes.
func imageBlock(imageBytes []byte, contentType string) map[string]interface{} {
	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, encodeBase64(imageBytes))
	return map[string]interface{}{
		"type":      "image_url",
		"image_url": map[string]interface{}{"url": dataURI},
	}
}
