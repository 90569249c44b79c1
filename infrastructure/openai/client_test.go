package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewClientWithConfig(cfg, "gpt-4o-mini")
}

func replyWith(t *testing.T, w http.ResponseWriter, choices ...string) {
	t.Helper()
	resp := openai.ChatCompletionResponse{ID: "chatcmpl-1", Model: "gpt-4o-mini"}
	for i, c := range choices {
		resp.Choices = append(resp.Choices, openai.ChatCompletionChoice{
			Index:   i,
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestAsk(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		replyWith(t, w, "  Seoul is UTC+9.  ")
	})

	answer, err := client.Ask(context.Background(), "what timezone is Seoul?")
	require.NoError(t, err)
	assert.Equal(t, "Seoul is UTC+9.", answer)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "what timezone is Seoul?", got.Messages[1].Content)
}

func TestTranslate_DefaultsToEnglish(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		replyWith(t, w, "Hello")
	})

	out, err := client.Translate(context.Background(), "안녕하세요", "")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
	assert.True(t, strings.Contains(got.Messages[0].Content, "English"))
}

func TestAsk_EmptyPrompt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := client.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestAsk_NoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w)
	})
	_, err := client.Ask(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response from OpenAI")
}

func TestAsk_TruncatesLongReplies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w, strings.Repeat("a", 2500))
	})
	out, err := client.Ask(context.Background(), "long please")
	require.NoError(t, err)
	assert.Equal(t, maxReplyLength+1, len([]rune(out)))
}

func TestAsk_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	})
	_, err := client.Ask(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ChatCompletion error")
}
