// Package server exposes the detection pipeline over HTTP: upload a
// document, get back its heading outline in any file format.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tocsmith/tocsmith/internal/export"
	"github.com/tocsmith/tocsmith/internal/pipeline"
	"github.com/tocsmith/tocsmith/internal/reader"
)

// DefaultMaxUploadBytes caps one uploaded document.
const DefaultMaxUploadBytes = 64 << 20

// Options configures the service surface.
type Options struct {
	// DefaultFormat renders responses when no format query is given.
	DefaultFormat export.Format

	// IncludeConfidence and IncludeFontInfo pass through to the exporter.
	IncludeConfidence bool
	IncludeFontInfo   bool

	// MaxUploadBytes caps one upload; 0 means DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// Server handles outline extraction requests. Whether results are
// deterministic or judge-assisted follows from the pipeline it was
// built with.
type Server struct {
	router chi.Router
	pipe   *pipeline.Pipeline
	opts   Options
	log    zerolog.Logger
}

// New wires the routes around a ready pipeline.
func New(pipe *pipeline.Pipeline, opts Options, log zerolog.Logger) *Server {
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = export.FormatJSON
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{pipe: pipe, opts: opts, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))

	r.Get("/healthz", s.handleHealthz)
	r.Post("/v1/outline", s.handleOutline)

	s.router = r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleOutline accepts a multipart upload in the "file" field and
// responds with the rendered outline. The optional "format" query picks
// any file format; term is not servable.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format := s.opts.DefaultFormat
	if v := r.URL.Query().Get("format"); v != "" {
		parsed, err := export.ParseFormat(v)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if parsed == export.FormatTerm {
			jsonError(w, "term format renders to a terminal, pick a file format", http.StatusBadRequest)
			return
		}
		format = parsed
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !reader.IsSupported(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.opts.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := reader.FromBytes(filename, data)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, reader.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		jsonError(w, err.Error(), status)
		return
	}

	res, err := s.pipe.Run(r.Context(), doc)
	if err != nil {
		s.log.Error().Err(err).Str("document", doc.Name).Msg("pipeline failed")
		jsonError(w, "extraction failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	e := export.Exporter{
		Format:            format,
		IncludeConfidence: s.opts.IncludeConfidence,
		IncludeFontInfo:   s.opts.IncludeFontInfo,
	}
	w.Header().Set("Content-Type", contentType(format))
	if err := e.Render(w, res, nil); err != nil {
		s.log.Error().Err(err).Msg("render failed")
	}
}

func contentType(f export.Format) string {
	switch f {
	case export.FormatJSON:
		return "application/json"
	case export.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case export.FormatCSV:
		return "text/csv; charset=utf-8"
	case export.FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
