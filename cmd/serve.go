package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tocsmith/tocsmith/internal/export"
	"github.com/tocsmith/tocsmith/internal/server"
)

var serveAddr string
var serveConfigPath string
var serveVerbose bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the outline extraction HTTP service",
	Long: `Run an HTTP service exposing outline extraction: POST a document to
/v1/outline and receive its heading structure. LLM judgment is active
only when the loaded config enables it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(serveVerbose)

		cfg, err := loadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		format, err := export.ParseFormat(cfg.Output.Format)
		if err != nil {
			return err
		}
		if format == export.FormatTerm {
			format = export.FormatJSON
		}

		pipe, err := newPipeline(cfg, log)
		if err != nil {
			return err
		}

		srv := server.New(pipe, server.Options{
			DefaultFormat:     format,
			IncludeConfidence: cfg.Output.IncludeConfidence,
			IncludeFontInfo:   cfg.Output.IncludeFontInfo,
		}, log)

		httpSrv := &http.Server{
			Addr:              serveAddr,
			Handler:           srv,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", serveAddr).Bool("llm", cfg.JudgeEnabled()).Msg("listening")
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	},
}

func init() {
	defaultAddr := ":8417"
	if envAddr := os.Getenv("TOCSMITH_ADDR"); envAddr != "" {
		defaultAddr = envAddr
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "Listen address")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", os.Getenv("TOCSMITH_CONFIG"), "Path to config file")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(serveCmd)
}
