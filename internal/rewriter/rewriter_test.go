package rewriter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MichalMitros/storefront-importer/internal/rewriter"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const original = "<p>Original copy</p>"

var nopLogger = zerolog.Nop()

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestUnitRewriteWithoutAPIKey(t *testing.T) {
	rw := rewriter.New("", &nopLogger, rewriter.WithBaseURL("http://127.0.0.1:1"))

	got := rw.Rewrite(context.TODO(), "Widget", original)

	assert.Equal(t, original, got, "should return original description")
}

func TestUnitRewrite(t *testing.T) {
	tests := map[string]struct {
		status  int
		content string
		want    string
	}{
		"rewritten": {
			status:  http.StatusOK,
			content: "  <p>Fresh copy</p>\n",
			want:    "<p>Fresh copy</p>",
		},
		"empty completion": {
			status:  http.StatusOK,
			content: "",
			want:    original,
		},
		"api error": {
			status: http.StatusInternalServerError,
			want:   original,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var received chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				assert.Equal(t, "/chat/completions", req.URL.Path, "should call chat completions")
				assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"), "should send API key")
				assert.NoError(t, json.NewDecoder(req.Body).Decode(&received))

				wrt.Header().Set("Content-Type", "application/json")
				if tt.status != http.StatusOK {
					wrt.WriteHeader(tt.status)
					_, _ = wrt.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
					return
				}
				_, _ = fmt.Fprintf(wrt, `{"id":"1","object":"chat.completion","choices":[{"index":0,
					"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, tt.content)
			}))
			t.Cleanup(srv.Close)

			rw := rewriter.New("sk-test", &nopLogger, rewriter.WithBaseURL(srv.URL))

			got := rw.Rewrite(context.TODO(), "Widget", original)

			assert.Equal(t, tt.want, got, "should return correct description")
			assert.Equal(t, rewriter.DefaultModel, received.Model, "should use default model")
			assert.Equal(t, rewriter.DefaultMaxTokens, received.MaxTokens, "should limit completion length")
			require.Len(t, received.Messages, 2, "should send system and user prompts")
			assert.Equal(t, "system", received.Messages[0].Role)
			assert.Contains(t, received.Messages[1].Content, original, "should send original description")
			assert.Contains(t, received.Messages[1].Content, "Widget", "should send product title")
		})
	}
}

func TestUnitRewriteCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, _ *http.Request) {
		wrt.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rw := rewriter.New("sk-test", &nopLogger, rewriter.WithBaseURL(srv.URL), rewriter.WithModel("gpt-4o"))

	assert.Equal(t, original, rw.Rewrite(ctx, "Widget", original), "should return original description")
}
