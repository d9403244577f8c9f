package config

import (
	"os"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Extraction.MinDigitalChars != 50 {
		t.Errorf("MinDigitalChars = %d, want 50", cfg.Extraction.MinDigitalChars)
	}
	if cfg.Extraction.OCRScale != 2.0 {
		t.Errorf("OCRScale = %v, want 2.0", cfg.Extraction.OCRScale)
	}
	if len(cfg.Extraction.OCRLanguages) != 2 {
		t.Errorf("OCRLanguages = %v, want spa+eng", cfg.Extraction.OCRLanguages)
	}
	if cfg.Audit.Seed != 42 || cfg.Audit.SampleSize != 20 {
		t.Errorf("audit defaults = seed %d, sample %d", cfg.Audit.Seed, cfg.Audit.SampleSize)
	}
	if cfg.Audit.Case != 7 {
		t.Errorf("audit case default = %d, want 7", cfg.Audit.Case)
	}
	if cfg.Search.TopN != 10 {
		t.Errorf("TopN = %d, want 10", cfg.Search.TopN)
	}
	if cfg.Storage.KeyPrefix != "cvlens:" {
		t.Errorf("KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
	if len(cfg.NER.Models) != 2 {
		t.Errorf("NER models = %v, want two language models", cfg.NER.Models)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.Embedding.Provider = "cohere"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown embedding provider")
	}
}

func TestValidate_OpenAIRequiresKey(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.Embedding.Provider = "openai"
	cfg.Embedding.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for openai provider without api key")
	}
}

func TestValidate_CaseRange(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	for _, bad := range []int{-1, 8, 100} {
		cfg.Audit.Case = bad
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for audit.case = %d", bad)
		}
	}
	cfg.Audit.Case = 3
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error for audit.case = 3: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("CVLENS_TEST_KEY", "secret")
	defer os.Unsetenv("CVLENS_TEST_KEY")

	in := []byte("api_key: ${CVLENS_TEST_KEY}\nmodel: ${CVLENS_TEST_MISSING:-fallback}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: secret\nmodel: fallback\n" {
		t.Errorf("unexpected expansion: %q", out)
	}
}
