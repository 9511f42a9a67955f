package mockserver

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
)

// Server is the mock provider HTTP server.
type Server struct {
	httpServer  *http.Server
	streamDelay time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithStreamDelay pauses between streamed chunks, so that chunk boundaries
// reach the client as separate reads.
func WithStreamDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.streamDelay = delay
	}
}

// New constructs a Server listening on addr once started.
func New(addr string, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}

	router := mux.NewRouter()
	s.routes(router)
	s.routes(router.PathPrefix("/v1").Subrouter())
	s.routes(router.PathPrefix("/v1beta").Subrouter())
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, openAIError("no mock route for "+r.Method+" "+r.URL.Path, "not_found", http.StatusNotFound))
	})
	router.Use(recoveryMiddleware, loggingMiddleware)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(r *mux.Router) {
	// OpenAI
	r.HandleFunc("/chat/completions", s.openAIChat).Methods(http.MethodPost)
	r.HandleFunc("/files", s.uploadFile).Methods(http.MethodPost)
	r.HandleFunc("/upload/files", s.uploadFile).Methods(http.MethodPost)

	// Gemini
	r.HandleFunc("/models/{model}:generateContent", s.geminiGenerate).Methods(http.MethodPost)
	r.HandleFunc("/models/{model}:streamGenerateContent", s.geminiStream).Methods(http.MethodPost)
	r.HandleFunc("/models/{model}:countTokens", s.geminiCountTokens).Methods(http.MethodPost)

	// Anthropic
	r.HandleFunc("/messages", s.anthropicMessages).Methods(http.MethodPost)
	r.HandleFunc("/messages/count_tokens", s.anthropicCountTokens).Methods(http.MethodPost)

	// Shared
	r.HandleFunc("/models", s.listModels).Methods(http.MethodGet)
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the router, for use with httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs each request with method, path, status and duration.
// The scenario is logged instead of the credential.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		slog.Debug("mock request",
			"method", r.Method,
			"path", r.URL.Path,
			"scenario", scenarioOf(r),
			"status", lrw.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}

// recoveryMiddleware catches panics and returns a 500.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "error", rec, "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, openAIError("internal server error", "server_error", http.StatusInternalServerError))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// loggingResponseWriter captures the status code written by the handler.
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so streams are not buffered.
func (lrw *loggingResponseWriter) Flush() {
	if f, ok := lrw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
