package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_GeneratePlan_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, GeneratePlanPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req GeneratePlanRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "the prompt", req.Prompt)
		assert.Equal(t, 15, req.Duration)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"plan":{"calendar":[{"day":1,"taskName":"A"}]},"modelVersion":"m1"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL+"/", nil)
	raw, err := client.GeneratePlan(context.Background(), "the prompt", 15)
	require.NoError(t, err)
	assert.Equal(t, "m1", raw["modelVersion"])

	items := NormalizeChunk(raw, 0)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Title)
}

func TestHTTPClient_GeneratePlan_NonSuccessKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model overloaded, try later"))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, nil).GeneratePlan(context.Background(), "p", 30)
	require.Error(t, err)

	var endpointErr *EndpointError
	require.ErrorAs(t, err, &endpointErr)
	assert.Equal(t, http.StatusInternalServerError, endpointErr.StatusCode)
	assert.Equal(t, "model overloaded, try later", endpointErr.Body)
	assert.Contains(t, err.Error(), "model overloaded, try later")
}

func TestHTTPClient_GeneratePlan_SingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, nil).GeneratePlan(context.Background(), "p", 30)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestHTTPClient_GeneratePlan_NotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, nil).GeneratePlan(context.Background(), "p", 30)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestHTTPClient_GeneratePlan_Unreachable(t *testing.T) {
	_, err := NewHTTPClient("http://127.0.0.1:1", nil).GeneratePlan(context.Background(), "p", 30)
	require.Error(t, err)
	var endpointErr *EndpointError
	assert.False(t, errors.As(err, &endpointErr))
}
