package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	// DefaultAPIVersion is API version used in endpoint path.
	DefaultAPIVersion = "2026-01"
	// DefaultMaxAttempts is maximal number of attempts of throttled request.
	DefaultMaxAttempts = 5
	// DefaultBaseDelay is delay before first retry of throttled request.
	DefaultBaseDelay = time.Second

	accessTokenHeader = "X-Shopify-Access-Token"
	throttledCode     = "THROTTLED"
	maxResponseSize   = 16 << 20
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Response is GraphQL response.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// GraphQLError is top-level GraphQL error.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// Throttled reports whether response signals rate limiting.
func (r *Response) Throttled() bool {
	return lo.SomeBy(r.Errors, func(e GraphQLError) bool { return e.Extensions.Code == throttledCode })
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Option is custom configuration of Client.
type Option func(c *Client)

// Client publishes products into single shop through its admin GraphQL API.
type Client struct {
	httpClient   *http.Client
	shop         string
	accessToken  string
	endpoint     string
	apiVersion   string
	maxAttempts  int
	baseDelay    time.Duration
	sleep        Sleeper
	maxDimension int
	jpegQuality  int
	logger       *zerolog.Logger
}

// New returns new Client for shop.
func New(httpClient *http.Client, shop, accessToken string, logger *zerolog.Logger, ops ...Option) *Client {
	c := &Client{
		httpClient:   httpClient,
		shop:         shop,
		accessToken:  accessToken,
		apiVersion:   DefaultAPIVersion,
		maxAttempts:  DefaultMaxAttempts,
		baseDelay:    DefaultBaseDelay,
		sleep:        sleepContext,
		maxDimension: DefaultMaxDimension,
		jpegQuality:  DefaultJPEGQuality,
		logger:       logger,
	}

	for _, op := range ops {
		op(c)
	}

	if c.endpoint == "" {
		c.endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, c.apiVersion)
	}

	return c
}

// MaxBackoff is the longest delay between retries.
const MaxBackoff = 5 * time.Minute

// Backoff returns delay before retry following attempt, doubling base delay with each attempt
// up to MaxBackoff.
func Backoff(base time.Duration, attempt int) time.Duration {
	shift := min(max(attempt, 0), 30)
	delay := base << shift
	if delay>>shift != base || delay > MaxBackoff {
		return MaxBackoff
	}

	return delay
}

// Call executes GraphQL request. Throttled requests are retried with exponential backoff,
// ErrRateLimitExhausted is returned when all attempts were throttled.
// Other GraphQL errors are returned in response.
func (c *Client) Call(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("can't encode request: %w", err)
	}

	for attempt := range c.maxAttempts {
		resp, err := c.post(ctx, body)
		if err != nil {
			return nil, err
		}

		if !resp.Throttled() {
			return resp, nil
		}

		if attempt == c.maxAttempts-1 {
			break
		}

		delay := Backoff(c.baseDelay, attempt)
		c.logger.Debug().
			Str("shop", c.shop).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("request throttled, retrying")

		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("can't wait for retry: %w", err)
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrRateLimitExhausted, c.maxAttempts)
}

func (c *Client) post(ctx context.Context, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("can't create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(accessTokenHeader, c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Response{Errors: []GraphQLError{throttledError()}}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnexpectedResponse, resp.StatusCode)
	}

	var gqlResp Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("%w: can't decode response: %w", ErrUnexpectedResponse, err)
	}

	return &gqlResp, nil
}

// decodeData calls query and decodes response data into T. Top-level errors without data fail the call.
func decodeData[T any](ctx context.Context, c *Client, query string, variables map[string]any) (*T, error) {
	resp, err := c.Call(ctx, query, variables)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, joinMessages(resp.Errors))
		}
		return nil, fmt.Errorf("%w: empty data", ErrUnexpectedResponse)
	}

	var data T
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: can't decode data: %w", ErrUnexpectedResponse, err)
	}

	return &data, nil
}

func joinMessages(errs []GraphQLError) string {
	return strings.Join(lo.Map(errs, func(e GraphQLError, _ int) string { return e.Message }), "; ")
}

func throttledError() GraphQLError {
	e := GraphQLError{Message: "Throttled"}
	e.Extensions.Code = throttledCode
	return e
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithEndpoint sets custom GraphQL endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithAPIVersion sets API version used to build endpoint URL.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithRetries sets maximal number of attempts and delay before first retry.
func WithRetries(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithSleeper sets custom Sleeper used between retries.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) {
		c.sleep = s
	}
}

// WithImageOptions sets maximal dimension and JPEG quality of uploaded images.
func WithImageOptions(maxDimension, jpegQuality int) Option {
	return func(c *Client) {
		if maxDimension > 0 {
			c.maxDimension = maxDimension
		}
		if jpegQuality > 0 {
			c.jpegQuality = jpegQuality
		}
	}
}
