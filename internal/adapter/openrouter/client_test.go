package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"examgen/internal/config"
	"examgen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.OpenRouterConfig {
	return config.OpenRouterConfig{
		BaseURL:     baseURL,
		ModelsURL:   baseURL + "/models",
		APIKey:      "test-key",
		Model:       "openai/gpt-3.5-turbo",
		MaxTokens:   4000,
		Referer:     "https://localhost",
		AppTitle:    "Online Exam Generator",
		PacingDelay: time.Second,
	}
}

func testRequest() *domain.GenerationRequest {
	return &domain.GenerationRequest{
		Subject:  "Geography",
		Sections: []domain.SectionSpec{{ID: 1, Type: domain.SectionTrueFalse}},
	}
}

const validExamJSON = `{"title":"Geography Exam","subject":"Geography","sections":[{"id":1,"type":"true_false","title":"Basics","questions":[{"question":"The Earth is round.","correct":true}]}]}`

func sseStream(pieces ...string) string {
	out := ""
	for _, p := range pieces {
		payload, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{"delta": map[string]any{"content": p}}},
		})
		out += "data: " + string(payload) + "\n"
	}
	return out + "data: [DONE]\n"
}

func TestClient_GenerateExamContent_Streaming(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://localhost", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Online Exam Generator", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		// Thinking artifacts and prose around the JSON must both survive
		// the pipeline.
		fmt.Fprint(w, sseStream("<think>planning the exam</think>", "Here it is: ", validExamJSON))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithDelay(NopDelay))

	doc, err := client.GenerateExamContent(context.Background(), testRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Geography Exam", doc.Title)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, domain.SectionTrueFalse, doc.Sections[0].Type)

	assert.True(t, gotReq.Stream)
	assert.Equal(t, "openai/gpt-3.5-turbo", gotReq.Model)
	assert.Equal(t, 4000, gotReq.MaxTokens)
	assert.InDelta(t, 0.7, gotReq.Temperature, 1e-9)
	assert.InDelta(t, 0.9, gotReq.TopP, 1e-9)
}

func TestClient_GenerateExamContent_ProgressSnapshots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseStream("part one ", validExamJSON))
	}))
	defer server.Close()

	var snaps []snapshot
	client := NewClient(testConfig(server.URL), WithDelay(NopDelay))

	_, err := client.GenerateExamContent(context.Background(), testRequest(), recordingSink(&snaps))

	require.NoError(t, err)
	require.NotEmpty(t, snaps)
	// Streamed snapshots grow monotonically; the final snapshot holds the
	// sanitized text.
	assert.Equal(t, "part one ", snaps[0].content)
	last := snaps[len(snaps)-1]
	assert.Equal(t, SanitizeResponse("part one "+validExamJSON), last.content)
}

func TestClient_GenerateExamContent_FallbackWhenStreamEmpty(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Stream {
			fmt.Fprint(w, "data: [DONE]\n")
			return
		}
		resp, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": validExamJSON}}},
		})
		w.Write(resp)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithDelay(NopDelay))

	doc, err := client.GenerateExamContent(context.Background(), testRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Geography Exam", doc.Title)
	assert.Equal(t, 2, calls)
}

func TestClient_GenerateExamContent_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Stream {
			fmt.Fprint(w, "data: [DONE]\n")
			return
		}
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithDelay(NopDelay))

	_, err := client.GenerateExamContent(context.Background(), testRequest(), nil)

	require.Error(t, err)
	assert.Equal(t, domain.ErrNoContentGenerated, domainErrCode(t, err))
}

func TestClient_GenerateExamContent_NotConfigured(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.APIKey = ""
	client := NewClient(cfg, WithDelay(NopDelay))

	_, err := client.GenerateExamContent(context.Background(), testRequest(), nil)

	require.Error(t, err)
	assert.Equal(t, domain.ErrNotConfigured, domainErrCode(t, err))
}

func TestClient_GenerateExamContent_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithDelay(NopDelay))

	_, err := client.GenerateExamContent(context.Background(), testRequest(), nil)

	require.Error(t, err)
	assert.Equal(t, domain.ErrTransport, domainErrCode(t, err))
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_TestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 10, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "Hello", req.Messages[0].Content)
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithDelay(NopDelay))
	assert.NoError(t, client.TestConnection(context.Background()))
}

func TestClient_TestConnection_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithDelay(NopDelay))

	err := client.TestConnection(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ErrTransport, domainErrCode(t, err))
}
