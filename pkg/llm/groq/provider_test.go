package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseServer(t *testing.T, frames []string, assertReq func(*testing.T, map[string]interface{})) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if assertReq != nil {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assertReq(t, body)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, frame := range frames {
			fmt.Fprintf(w, "%s\n\n", frame)
		}
	}))
}

func delta(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`, content)
}

func TestChatStreamDeliversDeltasInOrder(t *testing.T) {
	server := sseServer(t, []string{
		delta("Hello"),
		delta(" world"),
		"data: [DONE]",
	}, func(t *testing.T, body map[string]interface{}) {
		assert.Equal(t, true, body["stream"])
		assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	})
	defer server.Close()

	p := NewProvider("test-key", server.URL, "")
	var got []string
	full, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}}, func(d string) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", " world"}, got)
	assert.Equal(t, "Hello world", full)
}

func TestChatStreamSkipsMalformedFrames(t *testing.T) {
	server := sseServer(t, []string{
		delta("Hello"),
		"data: {not json at all",
		": comment line",
		`data: {"choices":[]}`,
		delta("!"),
		"data: [DONE]",
	}, nil)
	defer server.Close()

	p := NewProvider("test-key", server.URL, "")
	full, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}}, func(string) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", full)
}

func TestChatStreamConsumerAbort(t *testing.T) {
	server := sseServer(t, []string{
		delta("one"),
		delta("two"),
		"data: [DONE]",
	}, nil)
	defer server.Close()

	p := NewProvider("test-key", server.URL, "")
	calls := 0
	_, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}}, func(string) error {
		calls++
		return errors.New("client gone")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestChatStreamUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit exceeded"}}`)
	}))
	defer server.Close()

	p := NewProvider("test-key", server.URL, "")
	_, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}}, func(string) error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatNonStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["stream"])
		fmt.Fprint(w, `{"choices":[{"message":{"content":"Hello there"}}]}`)
	}))
	defer server.Close()

	p := NewProvider("test-key", server.URL, "custom-model")
	resp, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", resp)
}

func TestChatStreamModelOverride(t *testing.T) {
	server := sseServer(t, []string{"data: [DONE]"}, func(t *testing.T, body map[string]interface{}) {
		assert.Equal(t, "other-model", body["model"])
	})
	defer server.Close()

	p := NewProvider("test-key", server.URL, "")
	_, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}}, func(string) error {
		return nil
	}, llm.WithModel("other-model"))
	require.NoError(t, err)
}
