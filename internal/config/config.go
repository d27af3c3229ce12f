package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	ReferenceFile string `toml:"reference_file"`
	LogDir        string `toml:"log_dir"`
	OutputDir     string `toml:"output_dir"`
}

// Timeline contains EDL interpretation settings.
type Timeline struct {
	FrameRate            int    `toml:"frame_rate"`
	MergeToleranceFrames int64  `toml:"merge_tolerance_frames"`
	SessionHeader        string `toml:"session_header"`
	DefaultSession       string `toml:"default_session"`
}

// LLM contains OpenRouter connection settings.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// Enrichment controls metadata lookups.
type Enrichment struct {
	Enabled          bool `toml:"enabled"`
	ComposerBackfill bool `toml:"composer_backfill"`
	MaxConcurrency   int  `toml:"max_concurrency"`
}

// Cache contains configuration for the persistent lookup cache.
type Cache struct {
	Enabled bool   `toml:"enabled"` // Default: true
	Path    string `toml:"path"`    // Default: ~/.cache/cuesheet/lookups.db
}

// Report contains cue sheet output settings.
type Report struct {
	Locale     string `toml:"locale"`
	MusicUsage string `toml:"music_usage"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cuesheet.
//
// Configuration sections by subsystem:
//   - Paths: reference data, logs, and report output
//   - Timeline: frame rate, merge tolerance, and session header parsing
//   - LLM: OpenRouter connection used for metadata lookups
//   - Enrichment: lookup toggles and backfill concurrency
//   - Cache: persistent lookup cache
//   - Report: sort locale and fixed column values
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Timeline   Timeline   `toml:"timeline"`
	LLM        LLM        `toml:"llm"`
	Enrichment Enrichment `toml:"enrichment"`
	Cache      Cache      `toml:"cache"`
	Report     Report     `toml:"report"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cuesheet.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and output directories, plus the cache
// parent directory when the cache is enabled.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Cache.Path), 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", filepath.Dir(c.Cache.Path), err)
		}
	}
	return nil
}

// LLMReady reports whether metadata lookups can be attempted.
func (c *Config) LLMReady() bool {
	return c.Enrichment.Enabled && strings.TrimSpace(c.LLM.APIKey) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "cuesheet", "lookups.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/cuesheet/lookups.db"
	}
	return filepath.Join(home, ".cache", "cuesheet", "lookups.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
