package tagging

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"galleria/internal/config"
	"galleria/internal/services"
)

const (
	describePrompt = "Describe this image in detail."
	extractPrompt  = "Extract 5-10 descriptive, one-word tags from this text. " +
		"Reply with only the tags separated by commas, nothing else.\n\nText: %s"
)

// Client runs the two-stage tag inference against an Ollama-compatible API:
// a vision model describes the image, then a small text model distills the
// description into comma-separated tags.
type Client struct {
	baseURL         string
	visionModel     string
	textModel       string
	describeTimeout time.Duration
	extractTimeout  time.Duration
	httpClient      *http.Client
}

// Option customizes the inference client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (useful for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an inference client from the tagging configuration.
func NewClient(cfg config.Tagging, opts ...Option) *Client {
	client := &Client{
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		visionModel:     cfg.VisionModel,
		textModel:       cfg.TextModel,
		describeTimeout: time.Duration(cfg.DescribeTimeoutSeconds) * time.Second,
		extractTimeout:  time.Duration(cfg.ExtractTimeoutSeconds) * time.Second,
		httpClient:      &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Infer returns sanitized tags for the image at path. Both model calls must
// succeed; any failure is reported as an external-service error so callers
// can degrade to an untagged item instead of failing the pipeline.
func (c *Client) Infer(ctx context.Context, path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrMissingSource, "tagging", "read", path, nil)
		}
		return nil, fmt.Errorf("read image: %w", err)
	}

	description, err := c.describe(ctx, raw)
	if err != nil {
		return nil, err
	}
	tagLine, err := c.extract(ctx, description)
	if err != nil {
		return nil, err
	}
	return SanitizeTags(strings.Split(tagLine, ",")), nil
}

func (c *Client) describe(ctx context.Context, imageData []byte) (string, error) {
	response, err := c.generate(ctx, generateRequest{
		Model:  c.visionModel,
		Prompt: describePrompt,
		Images: []string{base64.StdEncoding.EncodeToString(imageData)},
	}, c.describeTimeout)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "tagging", "describe", c.visionModel, err)
	}
	if strings.TrimSpace(response) == "" {
		return "", services.Wrap(services.ErrExternalService, "tagging", "describe", "empty description", nil)
	}
	return response, nil
}

func (c *Client) extract(ctx context.Context, description string) (string, error) {
	response, err := c.generate(ctx, generateRequest{
		Model:  c.textModel,
		Prompt: fmt.Sprintf(extractPrompt, description),
	}, c.extractTimeout)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "tagging", "extract", c.textModel, err)
	}
	return response, nil
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) generate(ctx context.Context, payload generateRequest, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	endpoint, err := url.JoinPath(c.baseURL, "/api/generate")
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return decoded.Response, nil
}
