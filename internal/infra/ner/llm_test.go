package ner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-insight/internal/domain/entity"
	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/resilience/retry"
)

const twoSentences = "Alice met Bob. Bob waved at Carol."

// fakeLister answers from a fixed table keyed by window text.
type fakeLister struct {
	mu      sync.Mutex
	windows []string
	answers map[string][]string
	err     error
}

func (f *fakeLister) listNames(_ context.Context, passage string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, passage)
	if f.err != nil {
		return nil, f.err
	}
	return f.answers[passage], nil
}

func testLLMConfig(baseURL string) LLMConfig {
	cfg := DefaultLLMConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 5 * time.Second
	cfg.WindowSize = 15
	cfg.Retry = fastRetry()
	return cfg
}

func TestLLM_RecognizeWindows(t *testing.T) {
	lister := &fakeLister{answers: map[string][]string{
		"Alice met Bob.":      {"Alice", "Bob"},
		"Bob waved at Carol.": {"Bob", "Carol"},
	}}
	l := newLLM("fake", lister, testLLMConfig(""), circuitbreaker.DefaultConfig("fake-ner"))

	got, err := l.Recognize(context.Background(), twoSentences)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice met Bob.", "Bob waved at Carol."}, lister.windows)
	assert.Equal(t, []entity.Entity{
		{Label: entity.LabelPerson, Text: "Alice", Start: 0, End: 5},
		{Label: entity.LabelPerson, Text: "Bob", Start: 10, End: 13},
		{Label: entity.LabelPerson, Text: "Bob", Start: 15, End: 18},
		{Label: entity.LabelPerson, Text: "Carol", Start: 28, End: 33},
	}, got)
}

func TestLLM_RecognizeIgnoresNamesNotInText(t *testing.T) {
	lister := &fakeLister{answers: map[string][]string{
		"Alice met Bob.":      {"Alice", "Robert"},
		"Bob waved at Carol.": nil,
	}}
	l := newLLM("fake", lister, testLLMConfig(""), circuitbreaker.DefaultConfig("fake-ner"))

	got, err := l.Recognize(context.Background(), twoSentences)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Text)
}

func TestLLM_RecognizeError(t *testing.T) {
	lister := &fakeLister{err: errors.New("model refused")}
	l := newLLM("fake", lister, testLLMConfig(""), circuitbreaker.DefaultConfig("fake-ner"))

	_, err := l.Recognize(context.Background(), twoSentences)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window 1 of 2")
	assert.Len(t, lister.windows, 1)
}

func TestLLM_RecognizeEmptyBook(t *testing.T) {
	lister := &fakeLister{}
	l := newLLM("fake", lister, testLLMConfig(""), circuitbreaker.DefaultConfig("fake-ner"))

	got, err := l.Recognize(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, lister.windows)
}

func TestLLMConfig_Validate(t *testing.T) {
	cfg := DefaultLLMConfig()
	require.NoError(t, cfg.validate())

	bad := cfg
	bad.WindowSize = 0
	assert.Error(t, bad.validate())

	bad = cfg
	bad.Timeout = 0
	assert.Error(t, bad.validate())

	bad = cfg
	bad.Retry = retry.Config{}
	assert.Error(t, bad.validate())
}

func chatReply(content string) string {
	b, _ := json.Marshal(content)
	return `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
		`"choices":[{"index":0,"message":{"role":"assistant","content":` + string(b) + `},"finish_reason":"stop"}]}`
}

func TestOpenAI_Recognize(t *testing.T) {
	var format struct {
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&format)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply(`{"names":["Alice","Bob","Carol"]}`)))
	}))
	defer server.Close()

	l, err := NewOpenAI("sk-test", testLLMConfig(server.URL))
	require.NoError(t, err)

	got, err := l.Recognize(context.Background(), twoSentences)
	require.NoError(t, err)
	assert.Len(t, got, 4)

	assert.Equal(t, "json_schema", format.ResponseFormat.Type)
	assert.Equal(t, "person_names", format.ResponseFormat.JSONSchema.Name)
	assert.True(t, format.ResponseFormat.JSONSchema.Strict)
}

func TestOpenAI_RecognizeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"message":"bad gateway","type":"server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(chatReply(`{"names":[]}`)))
	}))
	defer server.Close()

	cfg := testLLMConfig(server.URL)
	cfg.WindowSize = 1000
	l, err := NewOpenAI("sk-test", cfg)
	require.NoError(t, err)

	got, err := l.Recognize(context.Background(), twoSentences)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAI_RecognizeInvalidReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply("Alice and Bob")))
	}))
	defer server.Close()

	l, err := NewOpenAI("sk-test", testLLMConfig(server.URL))
	require.NoError(t, err)

	_, err = l.Recognize(context.Background(), twoSentences)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClaude_Recognize(t *testing.T) {
	var gotSystem string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		var req struct {
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.System) > 0 {
			gotSystem = req.System[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5",` +
			`"content":[{"type":"text","text":"` + "```json\\n" + `{\"names\":[\"Carol\"]}` + "\\n```" + `"}],` +
			`"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer server.Close()

	cfg := testLLMConfig(server.URL)
	cfg.WindowSize = 1000
	l, err := NewClaude("sk-ant-test", cfg)
	require.NoError(t, err)

	got, err := l.Recognize(context.Background(), twoSentences)
	require.NoError(t, err)
	assert.Equal(t, []entity.Entity{{Label: entity.LabelPerson, Text: "Carol", Start: 28, End: 33}}, got)
	assert.Contains(t, gotSystem, `"names"`)
	assert.Equal(t, "claude-ner", l.CircuitBreaker().Name())
}

func TestNoOp_Recognize(t *testing.T) {
	got, err := NewNoOp().Recognize(context.Background(), twoSentences)
	require.NoError(t, err)
	assert.Nil(t, got)
}
