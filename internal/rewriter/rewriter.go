package rewriter

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is chat model used for rewriting.
	DefaultModel = openai.GPT4oMini
	// DefaultMaxTokens is maximal length of rewritten description.
	DefaultMaxTokens = 1000

	systemPrompt = "You are an e-commerce SEO expert. Rewrite product descriptions to be unique and persuasive " +
		"but keep technical specs intact. Output ONLY valid HTML."
)

// Option is custom configuration of Rewriter.
type Option func(r *Rewriter)

// Rewriter rewrites product marketing copy. It never fails, original copy is returned instead.
type Rewriter struct {
	client    *openai.Client
	baseURL   string
	model     string
	maxTokens int
	logger    *zerolog.Logger
}

// New returns new Rewriter. Rewriter without API key returns descriptions unchanged.
func New(apiKey string, logger *zerolog.Logger, ops ...Option) *Rewriter {
	r := &Rewriter{
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		logger:    logger,
	}

	for _, op := range ops {
		op(r)
	}

	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if r.baseURL != "" {
			cfg.BaseURL = r.baseURL
		}
		r.client = openai.NewClientWithConfig(cfg)
	}

	return r
}

// Rewrite returns rewritten html description of product titled title.
// Original html is returned when rewriting is disabled or fails.
func (r *Rewriter) Rewrite(ctx context.Context, title, html string) string {
	if r.client == nil {
		return html
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(title, html)},
		},
	})
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("title", title).
			Msg("can't rewrite description")
		return html
	}

	if len(resp.Choices) == 0 {
		return html
	}

	rewritten := strings.TrimSpace(resp.Choices[0].Message.Content)
	if rewritten == "" {
		return html
	}

	return rewritten
}

func userPrompt(title, html string) string {
	return fmt.Sprintf("Rewrite the description of product titled %q. Return ONLY the HTML.\n\n%s", title, html)
}

// WithBaseURL sets custom API base URL.
func WithBaseURL(baseURL string) Option {
	return func(r *Rewriter) {
		r.baseURL = baseURL
	}
}

// WithModel sets custom chat model.
func WithModel(model string) Option {
	return func(r *Rewriter) {
		if model != "" {
			r.model = model
		}
	}
}
