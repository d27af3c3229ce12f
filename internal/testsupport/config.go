package testsupport

import (
	"path/filepath"
	"testing"

	"cuesheet/internal/config"
)

// DefaultReference is the reference text written by NewConfig.
const DefaultReference = "LIBRARY ABC Acme Production Music\nLIBRARY XYZ Xylo Tracks\n"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The reference file is written with DefaultReference, lookups are disabled
// and the cache lives under the temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ReferenceFile = filepath.Join(base, "reference.txt")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Cache.Path = filepath.Join(base, "cache", "lookups.db")
	cfgVal.Cache.Enabled = false
	cfgVal.Enrichment.Enabled = false
	cfgVal.LLM.APIKey = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	WriteFile(t, cfgVal.Paths.ReferenceFile, DefaultReference)

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithReference replaces the reference file contents.
func WithReference(text string) ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Paths.ReferenceFile, text)
	}
}

// WithLLM enables lookups against baseURL with a fake key.
func WithLLM(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Enrichment.Enabled = true
		b.cfg.LLM.APIKey = "test-key"
		b.cfg.LLM.BaseURL = baseURL
		b.cfg.LLM.TimeoutSeconds = 5
	}
}

// WithCache enables the persistent lookup cache.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ReferenceFile)
}
