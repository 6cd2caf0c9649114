package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/studyplan-backend/internal/modules/study/recs"
	"github.com/yungbote/studyplan-backend/internal/pkg/httpx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/utils"
)

const (
	summarizeInputChars = 12000
	queryInputChars     = 1800
	queryTopicHints     = 10

	summarizeTemperature = 0.2
	queryTemperature     = 0.3
)

type Client interface {
	GenerateText(ctx context.Context, system, user string, temperature float64) (string, error)
	// GenerateQueries asks for a JSON array of video search queries and
	// returns the raw model output.
	GenerateQueries(ctx context.Context, text string, hints []recs.TopicHint) (string, error)
	Summarize(ctx context.Context, text string, maxSentences int) (string, error)
}

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:     strings.TrimSpace(utils.GetEnv("OPENAI_API_KEY", "", nil)),
		BaseURL:    utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log),
		Model:      utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log),
		Timeout:    utils.GetEnvAsSeconds("OPENAI_TIMEOUT_SECONDS", 120*time.Second, log),
		MaxRetries: utils.GetEnvAsInt("OPENAI_MAX_RETRIES", 4, log),
	}
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{
		log:        log.With("service", "OpenAIClient"),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      strings.TrimSpace(cfg.Model),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		baseDelay:  time.Second,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model       string    `json:"model"`
	Input       []message `json:"input"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

func (c *client) GenerateText(ctx context.Context, system, user string, temperature float64) (string, error) {
	var input []message
	if strings.TrimSpace(system) != "" {
		input = append(input, message{Role: "system", Content: system})
	}
	input = append(input, message{Role: "user", Content: user})
	req := responsesRequest{Model: c.model, Input: input, Temperature: &temperature}

	var resp responsesResponse
	err := c.do(ctx, http.MethodPost, "/v1/responses", &req, &resp)
	if err != nil && isUnsupportedTemperatureParam(err) {
		// Reasoning models reject temperature; retry once without it.
		c.log.Warn("model rejected temperature, retrying without", "model", c.model)
		req.Temperature = nil
		err = c.do(ctx, http.MethodPost, "/v1/responses", &req, &resp)
	}
	if err != nil {
		return "", err
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}
	text := strings.TrimSpace(extractOutputText(resp))
	if text == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	return text, nil
}

func (c *client) GenerateQueries(ctx context.Context, text string, hints []recs.TopicHint) (string, error) {
	return c.GenerateText(ctx, "", queryPrompt(text, hints), queryTemperature)
}

func (c *client) Summarize(ctx context.Context, text string, maxSentences int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if maxSentences <= 0 {
		maxSentences = 5
	}
	return c.GenerateText(ctx, "", summarizePrompt(text, maxSentences), summarizeTemperature)
}

func summarizePrompt(text string, maxSentences int) string {
	return fmt.Sprintf(
		"Summarize the following content in at most %d sentences.\n"+
			"Keep it clear, factual, and study-friendly.\n\n"+
			"CONTENT:\n%s",
		maxSentences, headRunes(text, summarizeInputChars),
	)
}

func queryPrompt(text string, hints []recs.TopicHint) string {
	if len(hints) > queryTopicHints {
		hints = hints[:queryTopicHints]
	}
	lines := make([]string, 0, len(hints))
	for _, h := range hints {
		lines = append(lines, fmt.Sprintf("- %s: %s", h.Title, h.Summary))
	}
	topics := strings.Join(lines, "\n")
	if topics == "" {
		topics = "- (no extracted topics)"
	}
	return fmt.Sprintf(
		"You are a helpful study assistant. Based on the document summary and topics below, "+
			"produce up to 5 concise YouTube search queries a student would type to learn the same material. "+
			"Keep each query under 80 characters, specific, and without duplicates. "+
			"Return ONLY a JSON array of strings.\n\n"+
			"Document summary (trimmed):\n%s\n\nTopics:\n%s",
		headRunes(text, queryInputChars), topics,
	)
}

func headRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{Service: "openai", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, httpx.Backoff(attempt, c.baseDelay, 10*time.Second), 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return err
		}
	}
	return errors.New("unreachable retry loop")
}

func isUnsupportedTemperatureParam(err error) bool {
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		return false
	}
	msg := strings.ToLower(se.Body)
	if !strings.Contains(msg, "temperature") {
		return false
	}
	for _, needle := range []string{"unsupported parameter", "unknown parameter", "not supported", "does not support", "only the default"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
