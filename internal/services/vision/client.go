package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL     = "https://vision.googleapis.com/v1/images:annotate"
	defaultHTTPTimeout = 15 * time.Second
	featureType        = "DOCUMENT_TEXT_DETECTION"
)

// Config captures the runtime settings for the OCR API.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
	LanguageHints  []string
}

// Symbol is one recognised character in reading order.
type Symbol struct {
	Text       string
	Confidence float64
}

// Client wraps the Vision annotate API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Vision client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if len(cfg.LanguageHints) == 0 {
		cfg.LanguageHints = []string{"en"}
	}
	client := &Client{cfg: cfg, httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image        imageContent `json:"image"`
	Features     []feature    `json:"features"`
	ImageContext imageContext `json:"imageContext"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type string `json:"type"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints"`
}

// DetectSymbols runs document text detection on a base64-encoded image and
// returns every symbol of the full text annotation in page, block, paragraph,
// word order. An image with no text yields an empty slice.
func (c *Client) DetectSymbols(ctx context.Context, imageBase64 string) ([]Symbol, error) {
	if !c.Configured() {
		return nil, errors.New("vision annotate: api key required")
	}
	if strings.TrimSpace(imageBase64) == "" {
		return nil, errors.New("vision annotate: image required")
	}

	body, err := json.Marshal(annotateRequest{Requests: []imageRequest{{
		Image:        imageContent{Content: imageBase64},
		Features:     []feature{{Type: featureType}},
		ImageContext: imageContext{LanguageHints: c.cfg.LanguageHints},
	}}})
	if err != nil {
		return nil, fmt.Errorf("vision annotate: encode body: %w", err)
	}

	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("vision annotate: parse url: %w", err)
	}
	query := endpoint.Query()
	query.Set("key", c.cfg.APIKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("vision annotate: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision annotate: http error: %w", redactKey(err, c.cfg.APIKey))
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vision annotate: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		msg := gjson.GetBytes(payload, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(payload))
		}
		return nil, fmt.Errorf("vision annotate: http %d: %s", resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(payload) {
		return nil, errors.New("vision annotate: invalid json response")
	}
	return parseSymbols(payload)
}

func parseSymbols(payload []byte) ([]Symbol, error) {
	response := gjson.GetBytes(payload, "responses.0")
	if msg := response.Get("error.message"); msg.Exists() {
		return nil, fmt.Errorf("vision annotate: api error: %s", msg.String())
	}
	symbols := make([]Symbol, 0)
	for _, page := range response.Get("fullTextAnnotation.pages").Array() {
		for _, block := range page.Get("blocks").Array() {
			for _, paragraph := range block.Get("paragraphs").Array() {
				for _, word := range paragraph.Get("words").Array() {
					for _, symbol := range word.Get("symbols").Array() {
						symbols = append(symbols, Symbol{
							Text:       symbol.Get("text").String(),
							Confidence: symbol.Get("confidence").Float(),
						})
					}
				}
			}
		}
	}
	return symbols, nil
}

// redactKey keeps the API key out of url.Error messages, which quote the
// request URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, key) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, key, "REDACTED"))
}
