package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smsledger/internal/common"
)

func TestOpenAICompatibleClient_Complete(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":" FOOD \n"}}]}`))
	}))
	defer server.Close()

	client, err := newOpenAICompatibleClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/openai/v1/",
	}, groqDefaults)
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), "Classify the merchant 'SWIGGY'")
	require.NoError(t, err)
	assert.Equal(t, " FOOD \n", reply)

	assert.Equal(t, "llama-3.3-70b-versatile", gotBody["model"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
}

func TestOpenAICompatibleClient_Errors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		status        int
		wantRetryable bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"slow down"}`, wantRetryable: true},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, wantRetryable: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"bad"}`, wantRetryable: false},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := newOpenAICompatibleClient(Config{APIKey: "k", BaseURL: server.URL}, openAIDefaults)
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), "prompt")
			require.Error(t, err)
			assert.Equal(t, tt.wantRetryable, common.IsRetryable(err))
		})
	}
}

func TestOpenAICompatibleClient_RequiresKey(t *testing.T) {
	_, err := newOpenAICompatibleClient(Config{}, groqDefaults)
	require.ErrorIs(t, err, common.ErrMissingConfig)
}
