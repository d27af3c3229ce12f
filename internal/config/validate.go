package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable. A missing LLM key is not an
// error: enrichment is skipped with a warning at run time.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ReferenceFile) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("paths.reference_file is required. Set CUESHEET_REFERENCE_FILE or edit %s (create with 'cuesheet config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateTimeline() error {
	if c.Timeline.FrameRate <= 0 {
		return errors.New("timeline.frame_rate must be positive")
	}
	if c.Timeline.MergeToleranceFrames < 0 {
		return errors.New("timeline.merge_tolerance_frames must be >= 0")
	}
	return nil
}

func (c *Config) validateLLM() error {
	return ensurePositiveMap(map[string]int{
		"llm.timeout_seconds": c.LLM.TimeoutSeconds,
		"llm.retry_attempts":  c.LLM.RetryAttempts,
	})
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.MaxConcurrency <= 0 {
		return errors.New("enrichment.max_concurrency must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateReport() error {
	if _, err := language.Parse(c.Report.Locale); err != nil {
		return fmt.Errorf("report.locale %q is not a valid language tag: %w", c.Report.Locale, err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
