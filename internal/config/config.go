// Package config holds the file-backed settings for detection, the
// judgment client, the pipeline and output rendering. CLI flags overlay
// these values; see cmd.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/tocsmith/tocsmith/internal/judge"
	"github.com/tocsmith/tocsmith/internal/outline"
)

// Config is the full settings tree, matching the YAML schema.
type Config struct {
	LLM       LLM       `yaml:"llm"`
	Detection Detection `yaml:"detection"`
	Pipeline  Pipeline  `yaml:"pipeline"`
	Filter    Filter    `yaml:"filter"`
	Output    Output    `yaml:"output"`
}

// LLM configures the judgment backend.
type LLM struct {
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	FallbackModel  string  `yaml:"fallback_model"`
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
}

// Detection configures the deterministic scorer and the numbering
// classifier.
type Detection struct {
	MinHeadingLength  int      `yaml:"min_heading_length"`
	MaxHeadingLength  int      `yaml:"max_heading_length"`
	MinConfidence     float64  `yaml:"min_confidence"`
	HeadingSizeRatio  float64  `yaml:"heading_size_ratio"`
	MaxLevel          int      `yaml:"max_level"`
	NumberingPatterns []string `yaml:"numbering_patterns"`
}

// Pipeline configures orchestration behavior.
type Pipeline struct {
	UseLLM            bool `yaml:"use_llm"`
	Reflect           bool `yaml:"reflect"`
	AuthoritativeSkip int  `yaml:"authoritative_skip"`
	BatchSize         int  `yaml:"batch_size"`
	ContextWindow     int  `yaml:"context_window"`
	Workers           int  `yaml:"workers"`
}

// Filter restricts output to subtrees matching any keyword. Empty
// keeps everything.
type Filter struct {
	Keywords []string `yaml:"keywords"`
}

// Output configures rendering.
type Output struct {
	Format            string `yaml:"format"`
	Dir               string `yaml:"dir"`
	IncludeConfidence bool   `yaml:"include_confidence"`
	IncludeFontInfo   bool   `yaml:"include_font_info"`
}

// Default returns the production settings.
func Default() Config {
	llm := judge.DefaultOptions()
	score := outline.DefaultScoreConfig()

	return Config{
		LLM: LLM{
			Provider:       string(llm.Provider),
			Model:          llm.Model,
			Temperature:    llm.Temperature,
			MaxTokens:      llm.MaxTokens,
			TimeoutSeconds: int(llm.Timeout / time.Second),
			MaxRetries:     llm.MaxRetries,
		},
		Detection: Detection{
			MinHeadingLength: score.MinLen,
			MaxHeadingLength: score.MaxLen,
			MinConfidence:    score.MinConfidence,
			HeadingSizeRatio: score.SizeRatio,
			MaxLevel:         score.MaxLevel,
		},
		Pipeline: Pipeline{
			AuthoritativeSkip: outline.DefaultAuthoritativeSkip,
			BatchSize:         50,
			ContextWindow:     2,
			Workers:           4,
		},
		Output: Output{
			Format: "markdown",
			Dir:    ".",
		},
	}
}

// Load reads a YAML file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.LLM.APIKey = ExpandEnv(cfg.LLM.APIKey)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var envRef = regexp.MustCompile(`\$\{(\w+)\}`)

// ExpandEnv resolves ${VAR} references so secrets can stay out of
// config files.
func ExpandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(m[2 : len(m)-1])
	})
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic", "none", "":
	default:
		return fmt.Errorf("config: unknown llm provider %q (supported: openai, anthropic, none)", c.LLM.Provider)
	}
	if c.Detection.MinConfidence < 0 || c.Detection.MinConfidence > 1 {
		return fmt.Errorf("config: detection.min_confidence %v outside [0, 1]", c.Detection.MinConfidence)
	}
	if c.Detection.MaxLevel < 1 {
		return fmt.Errorf("config: detection.max_level %d, want >= 1", c.Detection.MaxLevel)
	}
	if c.Detection.MaxHeadingLength <= c.Detection.MinHeadingLength {
		return fmt.Errorf("config: detection.max_heading_length %d must exceed min_heading_length %d",
			c.Detection.MaxHeadingLength, c.Detection.MinHeadingLength)
	}
	if c.Detection.HeadingSizeRatio <= 0 {
		return fmt.Errorf("config: detection.heading_size_ratio %v, want > 0", c.Detection.HeadingSizeRatio)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("config: pipeline.workers %d, want >= 1", c.Pipeline.Workers)
	}
	if c.Pipeline.BatchSize < 1 {
		return fmt.Errorf("config: pipeline.batch_size %d, want >= 1", c.Pipeline.BatchSize)
	}
	if c.Pipeline.AuthoritativeSkip < 0 {
		return fmt.Errorf("config: pipeline.authoritative_skip %d, want >= 0", c.Pipeline.AuthoritativeSkip)
	}
	return nil
}

// JudgeEnabled reports whether a judgment client should be built.
func (c Config) JudgeEnabled() bool {
	return c.Pipeline.UseLLM && c.LLM.Provider != "none" && c.LLM.Provider != ""
}

// JudgeOptions maps the LLM section onto provider options.
func (c Config) JudgeOptions() judge.Options {
	return judge.Options{
		Provider:      judge.ProviderName(c.LLM.Provider),
		Model:         c.LLM.Model,
		FallbackModel: c.LLM.FallbackModel,
		APIKey:        c.LLM.APIKey,
		BaseURL:       c.LLM.BaseURL,
		Temperature:   c.LLM.Temperature,
		MaxTokens:     c.LLM.MaxTokens,
		Timeout:       time.Duration(c.LLM.TimeoutSeconds) * time.Second,
		MaxRetries:    c.LLM.MaxRetries,
	}
}

// ScoreConfig maps the detection section onto scorer settings.
func (c Config) ScoreConfig() outline.ScoreConfig {
	return outline.ScoreConfig{
		MinLen:        c.Detection.MinHeadingLength,
		MaxLen:        c.Detection.MaxHeadingLength,
		MinConfidence: c.Detection.MinConfidence,
		SizeRatio:     c.Detection.HeadingSizeRatio,
		MaxLevel:      c.Detection.MaxLevel,
	}
}
