package prompt

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1500
	DefaultTimeout     = 60 * time.Second
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	cfg    Config
	client *fasthttp.Client
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &OpenAIClient{
		cfg: cfg,
		client: &fasthttp.Client{
			Name:                "promptboard",
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, title, description string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", &UpstreamError{Message: err.Error(), Err: err}
	}

	body, err := sonic.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userInstruction(title, strings.TrimSpace(description))},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.BaseURL + "/chat/completions")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.cfg.APIKey)
	req.SetBody(body)

	if err := c.client.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return "", &UpstreamError{Message: err.Error(), Err: err}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		var errResp errorResponse
		msg := strings.TrimSpace(string(resp.Body()))
		if sonic.Unmarshal(resp.Body(), &errResp) == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return "", &UpstreamError{StatusCode: status, Message: msg}
	}

	var out chatResponse
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return "", &UpstreamError{StatusCode: status, Message: "malformed response", Err: err}
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return FallbackPrompt, nil
	}
	return out.Choices[0].Message.Content, nil
}

// deadline is the earlier of the context deadline and the client timeout.
func (c *OpenAIClient) deadline(ctx context.Context) time.Time {
	dl := time.Now().Add(c.cfg.Timeout)
	if ctxDl, ok := ctx.Deadline(); ok && ctxDl.Before(dl) {
		return ctxDl
	}
	return dl
}
