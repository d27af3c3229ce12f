package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTimeline()
	c.normalizeLLM()
	c.normalizeEnrichment()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ReferenceFile) == "" {
		c.Paths.ReferenceFile = defaultReferenceFile
	}
	if value, ok := os.LookupEnv("CUESHEET_REFERENCE_FILE"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ReferenceFile = strings.TrimSpace(value)
	}
	if c.Paths.ReferenceFile, err = expandPath(c.Paths.ReferenceFile); err != nil {
		return fmt.Errorf("paths.reference_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTimeline() {
	c.Timeline.SessionHeader = strings.TrimSpace(c.Timeline.SessionHeader)
	if c.Timeline.SessionHeader == "" {
		c.Timeline.SessionHeader = defaultSessionHeader
	}
	c.Timeline.DefaultSession = strings.TrimSpace(c.Timeline.DefaultSession)
	if c.Timeline.DefaultSession == "" {
		c.Timeline.DefaultSession = defaultSessionName
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.RetryAttempts <= 0 {
		c.LLM.RetryAttempts = defaultLLMRetryAttempts
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("CUESHEET_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeEnrichment() {
	if c.Enrichment.MaxConcurrency <= 0 {
		c.Enrichment.MaxConcurrency = defaultMaxConcurrency
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeReport() {
	c.Report.Locale = strings.TrimSpace(c.Report.Locale)
	if c.Report.Locale == "" {
		c.Report.Locale = defaultReportLocale
	}
	c.Report.MusicUsage = strings.TrimSpace(c.Report.MusicUsage)
	if c.Report.MusicUsage == "" {
		c.Report.MusicUsage = defaultMusicUsage
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
