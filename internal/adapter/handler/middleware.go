package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/fishstock/internal/auth"
)

type contextKey string

const requestIDKey contextKey = "request_id"

const RequestIDHeader = "X-Request-ID"

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Routes wires every endpoint behind the middleware chain. verifier may be
// nil, in which case mutations are open.
func (h *HTTPHandler) Routes(verifier *auth.Verifier) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/inventory", h.Inventory)
	mux.HandleFunc("/transactions", h.Transactions)
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/stats", h.Stats)

	// the original web client calls the functions under this prefix
	mux.Handle("/.netlify/functions/", http.StripPrefix("/.netlify/functions", mux))

	var handler http.Handler = mux
	if verifier != nil {
		handler = RequireToken(verifier, handler)
	}
	handler = CORS(handler)
	handler = Logging(h.logger, handler)
	return RequestID(handler)
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("Access-Control-Allow-Origin", "*")
		headers.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		headers.Set("Content-Type", "application/json")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequireToken rejects mutating requests without a valid bearer token.
func RequireToken(verifier *auth.Verifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		token, err := auth.FromHeader(r.Header.Get("Authorization"))
		if err == nil {
			_, err = verifier.Verify(token)
		}
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func Logging(logger logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.WithFields(logrus.Fields{
			"request_id": RequestIDFrom(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request handled")
	})
}
