package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tocsmith/tocsmith/internal/config"
	"github.com/tocsmith/tocsmith/internal/judge"
	"github.com/tocsmith/tocsmith/internal/pipeline"
	"github.com/tocsmith/tocsmith/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tocsmith",
	Short: "Infer heading structure from PDF, Markdown and HTML documents",
	Long: `tocsmith reconstructs the heading outline of a document. Embedded
structure (PDF bookmarks, Markdown headings, HTML heading tags) is used
when present; otherwise headings are detected from numbering schemes,
typography and layout, with optional LLM judgment for documents where
deterministic signals run out.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("tocsmith %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger on stderr, keeping stdout for
// rendered output.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the config file when given, defaults otherwise.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newPipeline assembles the pipeline from a merged config, building the
// judge client only when one is configured.
func newPipeline(cfg config.Config, log zerolog.Logger) (*pipeline.Pipeline, error) {
	var j *judge.Client
	if cfg.JudgeEnabled() {
		provider, err := judge.NewProvider(cfg.JudgeOptions())
		if err != nil {
			return nil, err
		}
		j = judge.New(provider)
		log.Debug().Str("model", j.Model()).Msg("judge enabled")
	}

	return pipeline.New(pipeline.Options{
		Score:             cfg.ScoreConfig(),
		Patterns:          cfg.Detection.NumberingPatterns,
		AuthoritativeSkip: cfg.Pipeline.AuthoritativeSkip,
		BatchSize:         cfg.Pipeline.BatchSize,
		ContextWindow:     cfg.Pipeline.ContextWindow,
		Workers:           cfg.Pipeline.Workers,
		Reflect:           cfg.Pipeline.Reflect,
	}, j, log)
}
