package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"capturadatos/internal/middleware"
)

const maxBodyBytes = 1 << 20

type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

type correlationKey struct{}

// NewRouter exposes the handler's endpoints over net/http. The password
// route is rate limited per client IP.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(withCorrelationID)
	r.Use(middleware.Logger(h.log))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeResult(w, routeNotFound())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeResult(w, methodNotAllowed())
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.With(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimited)).
		Post("/passwords/suggest", h.bodyEndpoint(h.suggestPassword))
	r.Post("/records", h.bodyEndpoint(h.submitRecord))
	r.Get("/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, h.getRecord(r.Context(), h.requestLog(r), chi.URLParam(r, "id")))
	})
	return r
}

func (h *Handler) bodyEndpoint(fn func(context.Context, *slog.Logger, []byte) result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeResult(w, result{status: http.StatusRequestEntityTooLarge, body: errorResponse{
					Error: codeBodyTooLarge, Message: "request body too large",
				}})
				return
			}
			writeResult(w, invalidBody())
			return
		}
		writeResult(w, fn(r.Context(), h.requestLog(r), body))
	}
}

func (h *Handler) requestLog(r *http.Request) *slog.Logger {
	id, _ := r.Context().Value(correlationKey{}).(string)
	return h.log.With("correlationId", id)
}

func withCorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := correlationID(map[string]string{correlationHeader: r.Header.Get(correlationHeader)})
		w.Header().Set(correlationHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), correlationKey{}, id)))
	})
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	writeResult(w, result{status: http.StatusTooManyRequests, body: errorResponse{
		Error: codeRateLimited, Message: "too many requests",
	}})
}

func writeResult(w http.ResponseWriter, res result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.status)
	_ = json.NewEncoder(w).Encode(res.body)
}
