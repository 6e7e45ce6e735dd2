package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalextract/internal/config"
	"legalextract/internal/domain"
	"legalextract/internal/llm"
	"legalextract/internal/llm/openai"
	"legalextract/internal/port"
)

func newTestClient(serverURL string) *openai.Client {
	cfg := &config.ProviderConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
	}
	return openai.NewClientWithEndpoint(cfg, serverURL)
}

func TestOpenAIClient_Generate_PDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])

		block := messages[1].(map[string]interface{})["content"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "file", block["type"])
		file := block["file"].(map[string]interface{})
		assert.True(t, strings.HasPrefix(file["file_data"].(string), "data:application/pdf;base64,"))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Case No\n1"},"finish_reason":"length"}]}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Generate(context.Background(), port.ModelRequest{
		Instruction: "extract fields",
		Attachment:  &port.Attachment{MIMEType: "application/pdf", Data: []byte("%PDF")},
	})

	require.NoError(t, err)
	assert.Equal(t, "Case No\n1", result.Text)
	assert.True(t, llm.Truncated(result.FinishReason))
}

func TestOpenAIClient_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Generate(context.Background(), port.ModelRequest{Text: "x"})

	require.NoError(t, err)
	assert.Empty(t, result.Text)
}

func TestOpenAIClient_Generate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), port.ModelRequest{Text: "x"})

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.ErrorIs(t, err, domain.ErrTransport)
}
