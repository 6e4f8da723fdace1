package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tocsmith/tocsmith/internal/export"
	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/reader"
)

var configPath string
var outputFormat string
var outputDir string
var useLLM bool
var llmProvider string
var llmModel string
var llmAPIKey string
var llmBaseURL string
var reflectOutline bool
var filterKeywords []string
var workers int
var verbose bool

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Extract the heading outline of a document",
	Long: `Extract the heading outline of a PDF, Markdown or HTML document and
render it in the chosen format. Embedded structure wins when present;
otherwise detection falls back to numbering, typography and layout,
plus LLM judgment when --llm is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(verbose)

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		// CLI flags override the file.
		if cmd.Flags().Changed("format") {
			cfg.Output.Format = outputFormat
		}
		if cmd.Flags().Changed("out") {
			cfg.Output.Dir = outputDir
		}
		if cmd.Flags().Changed("llm") {
			cfg.Pipeline.UseLLM = useLLM
		}
		if llmProvider != "" {
			cfg.LLM.Provider = llmProvider
		}
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		if llmAPIKey != "" {
			cfg.LLM.APIKey = llmAPIKey
		}
		if llmBaseURL != "" {
			cfg.LLM.BaseURL = llmBaseURL
		}
		if cmd.Flags().Changed("reflect") {
			cfg.Pipeline.Reflect = reflectOutline
		}
		if cmd.Flags().Changed("workers") {
			cfg.Pipeline.Workers = workers
		}
		if cmd.Flags().Changed("filter") {
			cfg.Filter.Keywords = filterKeywords
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		format, err := export.ParseFormat(cfg.Output.Format)
		if err != nil {
			return err
		}

		doc, err := reader.Read(args[0])
		if err != nil {
			return err
		}
		log.Debug().
			Str("document", doc.Name).
			Int("pages", doc.TotalPages).
			Int("units", len(doc.Units)).
			Int("outline_entries", len(doc.Outline)).
			Msg("document parsed")

		pipe, err := newPipeline(cfg, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := pipe.Run(ctx, doc)
		if err != nil {
			return err
		}

		kept := outline.FilterSubtrees(res.Forest, expandKeywords(cfg.Filter.Keywords))

		e := export.Exporter{
			Format:            format,
			IncludeConfidence: cfg.Output.IncludeConfidence,
			IncludeFontInfo:   cfg.Output.IncludeFontInfo,
		}
		if format == export.FormatTerm {
			return e.Render(cmd.OutOrStdout(), res, kept)
		}
		path, err := e.Save(cfg.Output.Dir, res, kept)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
		return nil
	},
}

func init() {
	outlineCmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("TOCSMITH_CONFIG"), "Path to config file")
	outlineCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format (json, markdown, txt, csv, pdf, term)")
	outlineCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory")
	outlineCmd.Flags().BoolVar(&useLLM, "llm", false, "Enable LLM judgment")

	// Provider flags with env var fallbacks
	defaultProvider := os.Getenv("TOCSMITH_PROVIDER")
	outlineCmd.Flags().StringVar(&llmProvider, "provider", defaultProvider, "LLM provider (openai, anthropic, none)")
	outlineCmd.Flags().StringVar(&llmModel, "model", os.Getenv("TOCSMITH_MODEL"), "LLM model name")
	outlineCmd.Flags().StringVar(&llmAPIKey, "api-key", os.Getenv("TOCSMITH_API_KEY"), "LLM API key")
	outlineCmd.Flags().StringVar(&llmBaseURL, "base-url", os.Getenv("TOCSMITH_BASE_URL"), "LLM API base URL")

	outlineCmd.Flags().BoolVar(&reflectOutline, "reflect", false, "Ask the LLM to audit the finished outline")
	outlineCmd.Flags().StringSliceVar(&filterKeywords, "filter", nil, "Keep only subtrees whose heading contains a keyword (\"financial\" expands to the built-in statement vocabulary)")
	outlineCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent LLM judgment calls")
	outlineCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(outlineCmd)
}

// expandKeywords resolves the financial shortcut to the built-in
// statement vocabulary.
func expandKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if kw == "financial" {
			out = append(out, outline.FinancialKeywords...)
			continue
		}
		out = append(out, kw)
	}
	return out
}
