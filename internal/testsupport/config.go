package testsupport

import (
	"path/filepath"
	"testing"

	"alphamastery/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Collaborator keys are blank and rate limiting is off unless an option
// says otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Database.Path = filepath.Join(base, "data", "alphamastery.db")
	cfgVal.Server.RequestsPerSecond = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIToken enables bearer-token auth on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithVision points the OCR client at baseURL with the given key.
func WithVision(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Vision.BaseURL = baseURL
		b.cfg.Vision.APIKey = apiKey
	}
}

// WithLLM points the chat completion client at baseURL with the given key.
func WithLLM(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = baseURL
		b.cfg.LLM.APIKey = apiKey
	}
}

// WithRateLimit enables the request limiter.
func WithRateLimit(rps float64, burst int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.RequestsPerSecond = rps
		b.cfg.Server.Burst = burst
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
