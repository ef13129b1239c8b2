package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/aretw0/jsonpattern"
	"github.com/aretw0/jsonpattern/internal/logging"
	"github.com/aretw0/jsonpattern/pkg/catalog"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/ports"
	"github.com/aretw0/jsonpattern/pkg/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Catalog is the application service behind the API.
type Catalog interface {
	ports.Validator
	ports.RuleLister
	Parse(data []byte, format schema.Format) (*schema.Node, error)
	Put(ctx context.Context, name string, src any) (*schema.Node, error)
	Get(ctx context.Context, name string) (*schema.Node, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// Server serves the jsonpattern API.
type Server struct {
	Catalog      Catalog
	Logger       *slog.Logger
	MaxBodyBytes int64

	apiVersion string
	mounts     []mount
}

type mount struct {
	pattern string
	handler http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.MaxBodyBytes = n
		}
	}
}

// WithMount serves an extra handler (e.g. "/metrics") next to the API.
func WithMount(pattern string, handler http.Handler) Option {
	return func(s *Server) {
		s.mounts = append(s.mounts, mount{pattern: pattern, handler: handler})
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return doc, nil
}

// NewHandler creates a new HTTP handler for the catalog.
func NewHandler(c Catalog, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{
		Catalog:      c,
		Logger:       logging.NewNop(),
		MaxBodyBytes: DefaultMaxBodyBytes,
		apiVersion:   spec.Info.Version,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/rules", s.ListRules)
	r.Get("/schemas", s.ListSchemas)
	r.Get("/schemas/{name}", s.withName(s.GetSchema))
	r.Put("/schemas/{name}", s.withName(s.PutSchema))
	r.Delete("/schemas/{name}", s.withName(s.DeleteSchema))
	r.Post("/schemas/{name}/validate", s.withName(s.ValidateDocument))
	r.Post("/validate", s.ValidateInline)

	for _, m := range s.mounts {
		r.Handle(m.pattern, m.handler)
	}

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>jsonpattern API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// withName binds and checks the {name} path parameter.
func (s *Server) withName(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var name string
		err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter name: %w", err))
			return
		}
		if !catalog.ValidName(name) {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid schema name %q", name))
			return
		}
		next(w, r, name)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "jsonpattern-http",
		"version":     strings.TrimSpace(jsonpattern.Version),
		"api_version": s.apiVersion,
	})
}

// ListRules handles the GET /rules request.
func (s *Server) ListRules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Catalog.Rules())
}

// ListSchemas handles the GET /schemas request.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.Catalog.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetSchema handles the GET /schemas/{name} request.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request, name string) {
	node, err := s.Catalog.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, node)
}

// PutSchema handles the PUT /schemas/{name} request. YAML bodies are accepted.
func (s *Server) PutSchema(w http.ResponseWriter, r *http.Request, name string) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	format := schema.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && strings.Contains(mt, "yaml") {
		format = schema.FormatYAML
	}

	node, err := s.Catalog.Parse(body, format)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	stored, err := s.Catalog.Put(r.Context(), name, node)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, stored)
}

// DeleteSchema handles the DELETE /schemas/{name} request.
func (s *Server) DeleteSchema(w http.ResponseWriter, r *http.Request, name string) {
	if err := s.Catalog.Delete(r.Context(), name); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValidateDocument handles the POST /schemas/{name}/validate request.
func (s *Server) ValidateDocument(w http.ResponseWriter, r *http.Request, name string) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	report, err := s.Catalog.Validate(r.Context(), name, json.RawMessage(body))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeReport(w, report)
}

// InlineRequest is the body of POST /validate.
type InlineRequest struct {
	Schema   json.RawMessage `json:"schema"`
	Document json.RawMessage `json:"document"`
}

// ValidateInline handles the POST /validate request.
func (s *Server) ValidateInline(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var req InlineRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Schema) == 0 || len(req.Document) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("schema and document are required"))
		return
	}

	node, err := s.Catalog.Parse(req.Schema, schema.FormatJSON)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := s.Catalog.ValidateWith(r.Context(), node, req.Document)
	if err != nil {
		// An inline schema is part of the request, so its defects are the client's.
		status := statusFor(err)
		if errors.Is(err, domain.ErrUnknownDatatype) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}
	s.writeReport(w, report)
}

// -- Helpers --

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, err)
			return nil, false
		}
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return nil, false
	}
	return body, true
}

func (s *Server) writeReport(w http.ResponseWriter, report *domain.Report) {
	w.Header().Set("X-Request-Id", report.ID)
	status := http.StatusOK
	if !report.OK {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, report)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSchemaNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDocumentFormat),
		errors.Is(err, domain.ErrSchemaFormat),
		errors.Is(err, domain.ErrSchemaTooDeep):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "status", status, "err", err)
	} else {
		s.Logger.Debug("request rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
