package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
	"mapsmith/internal/port"
)

func newTestClient(serverURL string) *Client {
	return NewClientWithEndpoint(&config.LLMConfig{
		APIKey:      "test-key",
		OCRModel:    "vl-test",
		TextModel:   "text-test",
		TimeoutSecs: 10,
	}, serverURL)
}

// sseServer streams the given fragments as chat-completion delta events.
func sseServer(t *testing.T, fragments []string, inspect func(r *http.Request, body map[string]interface{})) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["stream"])
		if inspect != nil {
			inspect(r, body)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, frag := range fragments {
			event := map[string]interface{}{
				"choices": []map[string]interface{}{
					{"delta": map[string]interface{}{"content": frag}},
				},
			}
			payload, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestExtractTextStreamsAndAccumulates(t *testing.T) {
	server := sseServer(t, []string{"第一家 ", "咖啡店\n", "地址：某路1号"}, func(r *http.Request, body map[string]interface{}) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "vl-test", body["model"])

		messages := body["messages"].([]interface{})
		require.Len(t, messages, 2)

		user := messages[1].(map[string]interface{})
		content := user["content"].([]interface{})
		require.Len(t, content, 2)

		img := content[0].(map[string]interface{})
		assert.Equal(t, "image_url", img["type"])
		url := img["image_url"].(map[string]interface{})["url"].(string)
		assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
	})
	defer server.Close()

	c := newTestClient(server.URL)

	var chunks []string
	text, err := c.ExtractText(context.Background(), port.ExtractInput{
		ImageBytes:  []byte("fake-image"),
		ContentType: "image/jpeg",
	}, func(chunk string) { chunks = append(chunks, chunk) })

	require.NoError(t, err)
	assert.Equal(t, "第一家 咖啡店\n地址：某路1号", text)
	assert.Equal(t, []string{"第一家 ", "咖啡店\n", "地址：某路1号"}, chunks)
}

func TestStructureParsesStreamedJSON(t *testing.T) {
	// The document arrives split across fragments.
	docJSON := `{"name":"","description":"","origin":"","filter":{"inclusive":{},"exclusive":{}},"data":[{"name":"Cafe A","address":"某路1号","tags":["咖啡"]}]}`
	mid := len(docJSON) / 2

	server := sseServer(t, []string{docJSON[:mid], docJSON[mid:]}, func(r *http.Request, body map[string]interface{}) {
		assert.Equal(t, "text-test", body["model"])
	})
	defer server.Close()

	c := newTestClient(server.URL)
	doc, err := c.Structure(context.Background(), "某路1号有家咖啡店叫Cafe A", "", nil)

	require.NoError(t, err)
	require.Len(t, doc.Data, 1)
	assert.Equal(t, "Cafe A", doc.Data[0].Name)
	assert.Equal(t, []string{"咖啡"}, doc.Data[0].Tags)
}

func TestStructureCarvesFencedJSON(t *testing.T) {
	reply := "Here is the result:\n```json\n{\"name\":\"x\",\"description\":\"\",\"origin\":\"\",\"filter\":{\"inclusive\":{},\"exclusive\":{}},\"data\":[]}\n```\nDone."

	server := sseServer(t, []string{reply}, nil)
	defer server.Close()

	c := newTestClient(server.URL)
	doc, err := c.Structure(context.Background(), "text", "", nil)

	require.NoError(t, err)
	assert.Equal(t, "x", doc.Name)
}

func TestStructureMalformedOutput(t *testing.T) {
	server := sseServer(t, []string{"I could not produce JSON, sorry."}, nil)
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Structure(context.Background(), "text", "", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedModelOutput)
}

func TestStructureCustomPromptReachesSystemMessage(t *testing.T) {
	docJSON := `{"name":"","description":"","origin":"","filter":{"inclusive":{},"exclusive":{}},"data":[]}`
	server := sseServer(t, []string{docJSON}, func(r *http.Request, body map[string]interface{}) {
		messages := body["messages"].([]interface{})
		system := messages[0].(map[string]interface{})
		assert.Contains(t, system["content"].(string), "only keep bakeries")
	})
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Structure(context.Background(), "text", "only keep bakeries", nil)
	require.NoError(t, err)
}

func TestEditSendsCurrentDocument(t *testing.T) {
	docJSON := `{"name":"after","description":"","origin":"","filter":{"inclusive":{},"exclusive":{}},"data":[]}`
	server := sseServer(t, []string{docJSON}, func(r *http.Request, body map[string]interface{}) {
		messages := body["messages"].([]interface{})
		user := messages[1].(map[string]interface{})
		prompt := user["content"].(string)
		assert.Contains(t, prompt, "before")
		assert.Contains(t, prompt, "rename the map")
	})
	defer server.Close()

	c := newTestClient(server.URL)
	current := domain.NewMapDocument()
	current.Name = "before"

	doc, err := c.Edit(context.Background(), &current, "rename the map", nil)
	require.NoError(t, err)
	assert.Equal(t, "after", doc.Name)
}

func TestStreamChatRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited"}}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.ExtractText(context.Background(), port.ExtractInput{ImageBytes: []byte("x")}, nil)

	require.Error(t, err)
	var rateLimit *RateLimitError
	require.ErrorAs(t, err, &rateLimit)
	assert.Equal(t, 30, int(rateLimit.RetryAfter.Seconds()))
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, ParseRetryAfterHeader(""))
	assert.Equal(t, 0, ParseRetryAfterHeader("soon"))
	assert.Equal(t, 45, ParseRetryAfterHeader("45"))
}

func TestCarveJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":1}`, carveJSONObject("text {\"a\":1} more"))
	assert.Equal(t, "", carveJSONObject("no json here"))
	assert.Equal(t, "", carveJSONObject("} reversed {"))
}
