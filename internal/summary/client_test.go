package summary

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklens/internal/config"
	"tasklens/internal/dataset"
)

func testClientConfig(baseURL string) config.SummaryConfig {
	return config.SummaryConfig{
		BaseURL:   baseURL,
		APIKey:    "test-key",
		Model:     "test-model",
		Timeout:   5 * time.Second,
		MaxTokens: 256,
		RPS:       100,
		Burst:     100,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSummarizeSuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Alice did most of the work."}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), discardLogger())
	text, err := client.Summarize(context.Background(), "summarize this")
	require.NoError(t, err)

	assert.Equal(t, "Alice did most of the work.", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, 256, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "summarize this", gotReq.Messages[0].Content)
}

func TestSummarizeAPIErrorIsSurfacedVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Incorrect API key provided"},
		})
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), discardLogger())
	_, err := client.Summarize(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (401)")
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestSummarizeNoRetries(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), discardLogger())
	_, err := client.Summarize(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestSummarizeEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), discardLogger())
	_, err := client.Summarize(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestSummarizeNotConfigured(t *testing.T) {
	cfg := testClientConfig("http://unused")
	cfg.APIKey = ""

	client := NewClient(cfg, discardLogger())
	_, err := client.Summarize(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSummarizeContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Summarize(ctx, "prompt")
	require.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	criteria := dataset.FilterCriteria{
		Users:    []string{"alice"},
		DateFrom: &from,
	}
	agg := dataset.Aggregates{
		Metrics: dataset.Metrics{TotalDurationSeconds: 5400, TaskCount: 3, MeanDurationSeconds: 1800},
		UserTotals: []dataset.UserTotal{
			{User: "alice", TotalDurationSeconds: 5400, TaskCount: 3},
		},
		TaskTypeCounts: []dataset.TaskTypeCount{{TaskType: "review", Count: 3}},
		DayTotals:      []dataset.DayTotal{{Date: "2025-03-01", TotalDurationSeconds: 5400, TaskCount: 3}},
	}

	prompt := BuildPrompt(agg, criteria)

	assert.Contains(t, prompt, "Active filters:")
	assert.Contains(t, prompt, "users: alice")
	assert.Contains(t, prompt, "from: 2025-03-01")
	assert.Contains(t, prompt, "3 tasks")
	assert.Contains(t, prompt, "1h30m tracked")
	assert.Contains(t, prompt, "- alice: 1h30m over 3 tasks")
	assert.Contains(t, prompt, "- review: 3")
	assert.Contains(t, prompt, "- 2025-03-01: 1h30m over 3 tasks")
}

func TestBuildPromptNoFilters(t *testing.T) {
	prompt := BuildPrompt(dataset.Aggregates{}, dataset.FilterCriteria{})
	assert.NotContains(t, prompt, "Active filters:")
	assert.Contains(t, prompt, "0 tasks")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h"},
		{5400, "1h30m"},
		{36000, "10h"},
		{3660, "1h01m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.seconds))
		})
	}
}
