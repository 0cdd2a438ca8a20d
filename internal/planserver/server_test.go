package planserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DaWei8/phasely/internal/generation"
	"github.com/DaWei8/phasely/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	text      string
	err       error
	available bool
	last      llm.GenerateRequest
}

func (f *fakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text, Model: "llama3.2", LatencyMs: 42, Attempts: 1}, nil
}

func (f *fakeLLM) Available(context.Context) bool { return f.available }

func newTestServer(t *testing.T, client llm.LLMClient) *httptest.Server {
	t.Helper()
	s, err := New(client, llm.ProviderOllama, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postPlan(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+generation.GeneratePlanPath, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

const twoDayPlan = "```json\n" + `{
  "introduction": {"title": "Go basics", "overview": "Two days of Go.", "goals": ["Write a CLI"]},
  "plan": [{"phaseNumber": 1, "title": "Setup"}],
  "calendar": [
    {"day": 1, "phaseNumber": 1, "taskName": "Install", "resources": [{"name": "Docs", "link": "https://go.dev/doc"}]},
    {"day": 2, "phaseNumber": 1, "taskName": "Tour", "resources": ["https://go.dev/tour"]}
  ]
}` + "\n```"

func TestGeneratePlan_Success(t *testing.T) {
	fake := &fakeLLM{text: twoDayPlan}
	srv := newTestServer(t, fake)

	resp := postPlan(t, srv.URL, `{"prompt":"Learn Go","duration":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body GeneratePlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "llama3.2", body.ModelVersion)
	assert.Equal(t, int64(42), body.UsageMetadata.LatencyMs)

	calendar, ok := body.Plan["calendar"].([]any)
	require.True(t, ok)
	assert.Len(t, calendar, 2)

	assert.Equal(t, llm.TaskGeneratePlan, fake.last.Task)
	assert.Equal(t, "Learn Go", fake.last.UserPrompt)
	assert.True(t, fake.last.JSONMode)
	assert.NotEmpty(t, fake.last.SystemPrompt)
}

func TestGeneratePlan_RoundTripsThroughClient(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{text: twoDayPlan})

	raw, err := generation.NewHTTPClient(srv.URL, nil).GeneratePlan(context.Background(), "Learn Go", 2)
	require.NoError(t, err)

	items := generation.NormalizeChunk(raw, 0)
	require.Len(t, items, 2)
	assert.Equal(t, "Install", items[0].Title)
	assert.Equal(t, []string{"https://go.dev/doc"}, items[0].Resources)
	assert.Equal(t, []string{"https://go.dev/tour"}, items[1].Resources)

	overview := generation.ExtractOverview(raw)
	require.NotNil(t, overview.Introduction)
	assert.Equal(t, "Go basics", overview.Introduction.Title)
	assert.Len(t, overview.Phases, 1)
}

func TestGeneratePlan_BadRequests(t *testing.T) {
	fake := &fakeLLM{text: twoDayPlan}
	srv := newTestServer(t, fake)

	cases := map[string]string{
		"malformed body":    `{"prompt":`,
		"empty prompt":      `{"prompt":"  ","duration":3}`,
		"zero duration":     `{"prompt":"Learn Go","duration":0}`,
		"negative duration": `{"prompt":"Learn Go","duration":-4}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postPlan(t, srv.URL, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Empty(t, fake.last.UserPrompt)
}

func TestGeneratePlan_ProviderFailureIsBadGateway(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{err: llm.ErrProviderUnavailable})

	_, err := generation.NewHTTPClient(srv.URL, nil).GeneratePlan(context.Background(), "Learn Go", 5)
	var epErr *generation.EndpointError
	require.True(t, errors.As(err, &epErr))
	assert.Equal(t, http.StatusBadGateway, epErr.StatusCode)
	assert.Contains(t, epErr.Body, "llm provider unavailable")
}

func TestGeneratePlan_SchemaViolationIsBadGateway(t *testing.T) {
	cases := map[string]string{
		"no calendar":        `{"introduction": {"title": "x"}}`,
		"calendar not array": `{"calendar": "day one"}`,
		"entry without day":  `{"calendar": [{"taskName": "Read"}]}`,
		"not json":           `Sorry, I cannot help with that.`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, &fakeLLM{text: text})
			resp := postPlan(t, srv.URL, `{"prompt":"Learn Go","duration":1}`)
			assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		})
	}
}

func TestHealth(t *testing.T) {
	up := newTestServer(t, &fakeLLM{available: true})
	resp, err := http.Get(up.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ollama", body["provider"])
	assert.Equal(t, true, body["available"])

	down := newTestServer(t, &fakeLLM{available: false})
	resp2, err := http.Get(down.URL + "/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s, err := New(&fakeLLM{}, llm.ProviderOllama, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
