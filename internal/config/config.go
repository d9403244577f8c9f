package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the cvlens configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Extraction ExtractionConfig `yaml:"extraction"`
	NER        NERConfig        `yaml:"ner"`
	Vocab      VocabConfig      `yaml:"vocab"`
	Search     SearchConfig     `yaml:"search"`
	Audit      AuditConfig      `yaml:"audit"`
	HTTP       HTTPConfig       `yaml:"http"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds settings for the read-only HTTP surface (serve command).
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	APIKeys         []string `yaml:"api_keys"`
}

// DatabaseConfig holds profile store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds key naming settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// EmbeddingConfig holds embedding provider settings.
// Provider "openai" talks to an OpenAI-compatible API; "local" runs an
// in-process sentence-transformer model.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
}

// ExtractionConfig holds page text extraction settings.
type ExtractionConfig struct {
	// MinDigitalChars is the digital-text length above which a page is
	// considered born-digital and OCR is skipped.
	MinDigitalChars int `yaml:"min_digital_chars"`
	// OCRScale is the raster magnification applied before OCR.
	OCRScale float64 `yaml:"ocr_scale"`
	// OCRLanguages are Tesseract language hints.
	OCRLanguages []string `yaml:"ocr_languages"`
}

// NERConfig holds entity recognizer settings. Two models are run per
// document, one tuned per target language.
type NERConfig struct {
	Models []string `yaml:"models"`
	// HeadChars bounds how much of the document start is scanned for the
	// candidate name.
	HeadChars int `yaml:"head_chars"`
}

// VocabConfig optionally overrides the built-in skill/title vocabularies.
type VocabConfig struct {
	Skills []string `yaml:"skills"`
	Titles []string `yaml:"titles"`
}

// SearchConfig holds interactive ranking settings.
type SearchConfig struct {
	Threshold float64 `yaml:"threshold"`
	TopN      int     `yaml:"top_n"`
}

// AuditConfig holds audit run settings. Target* fix the job requisition
// the audited decisions are measured against, so every audit run judges
// the same question.
type AuditConfig struct {
	Seed             int64   `yaml:"seed"`
	SampleSize       int     `yaml:"sample_size"`
	Threshold        float64 `yaml:"threshold"`
	Case             int     `yaml:"case"`
	GroundTruthFile  string  `yaml:"ground_truth_file"`
	TargetTitle      string  `yaml:"target_title"`
	TargetSkills     string  `yaml:"target_skills"`
	TargetExperience int     `yaml:"target_experience"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if len(c.Database.Addrs) == 0 {
		c.Database.Addrs = []string{"localhost:6379"}
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "cvlens:"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "local"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if c.Extraction.MinDigitalChars <= 0 {
		c.Extraction.MinDigitalChars = 50
	}
	if c.Extraction.OCRScale <= 0 {
		c.Extraction.OCRScale = 2.0
	}
	if len(c.Extraction.OCRLanguages) == 0 {
		c.Extraction.OCRLanguages = []string{"spa", "eng"}
	}
	if len(c.NER.Models) == 0 {
		c.NER.Models = []string{
			"urchade/gliner_multi-v2.1",
			"urchade/gliner_medium-v2.1",
		}
	}
	if c.NER.HeadChars <= 0 {
		c.NER.HeadChars = 800
	}
	if c.Search.Threshold <= 0 {
		c.Search.Threshold = 0.40
	}
	if c.Search.TopN <= 0 {
		c.Search.TopN = 10
	}
	if c.Audit.Seed == 0 {
		c.Audit.Seed = 42
	}
	if c.Audit.SampleSize <= 0 {
		c.Audit.SampleSize = 20
	}
	if c.Audit.Threshold <= 0 {
		c.Audit.Threshold = 0.30
	}
	if c.Audit.Case == 0 {
		c.Audit.Case = 7
	}
	if c.Audit.GroundTruthFile == "" {
		c.Audit.GroundTruthFile = "ground_truth.csv"
	}
	if c.Audit.TargetTitle == "" {
		c.Audit.TargetTitle = "Software Engineer Developer"
	}
	if c.Audit.TargetSkills == "" {
		c.Audit.TargetSkills = "Python, SQL, Leadership"
	}
	if c.Audit.TargetExperience <= 0 {
		c.Audit.TargetExperience = 3
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Embedding.Provider {
	case "local", "openai":
		// ok
	default:
		return fmt.Errorf(
			"embedding.provider must be \"local\" or \"openai\", got %q", c.Embedding.Provider)
	}
	if c.Embedding.Provider == "openai" && c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required for the openai provider")
	}
	if c.Audit.Threshold < -1 || c.Audit.Threshold > 1 {
		return fmt.Errorf("audit.threshold must be within [-1, 1], got %v", c.Audit.Threshold)
	}
	if c.Search.Threshold < -1 || c.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be within [-1, 1], got %v", c.Search.Threshold)
	}
	if c.Audit.Case < 1 || c.Audit.Case > 7 {
		return fmt.Errorf("audit.case must be between 1 and 7, got %d", c.Audit.Case)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
