package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GeneratePlanPath is the route of the generation endpoint relative to its base URL.
const GeneratePlanPath = "/api/generate-plan"

// RawResponse is the decoded JSON body returned by the generation endpoint.
// Numbers are kept as json.Number.
type RawResponse map[string]any

// Endpoint issues a single generation request.
type Endpoint interface {
	GeneratePlan(ctx context.Context, prompt string, duration int) (RawResponse, error)
}

// GeneratePlanRequest is the JSON body sent to the generation endpoint.
type GeneratePlanRequest struct {
	Prompt   string `json:"prompt"`
	Duration int    `json:"duration"`
}

// HTTPClient implements Endpoint over HTTP. It performs exactly one request
// per call; there are no retries and no client-side timeout.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates an Endpoint for the generation service at baseURL.
// A nil httpClient uses http.DefaultClient.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *HTTPClient) GeneratePlan(ctx context.Context, prompt string, duration int) (RawResponse, error) {
	data, err := json.Marshal(GeneratePlanRequest{Prompt: prompt, Duration: duration})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePlanPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling generation endpoint: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &EndpointError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	dec := json.NewDecoder(bytes.NewReader(respBody))
	dec.UseNumber()
	var raw RawResponse
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null body", ErrInvalidResponse)
	}
	return raw, nil
}
