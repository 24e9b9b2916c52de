package fakebank

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.ContentTypeHeaderName, common.JSONContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the error body the real API produces.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, models.APIError{
		Status:    status,
		Message:   message,
		Timestamp: models.NewTimestamp(s.clock.Now()),
		Path:      r.URL.Path,
	})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// statusRecorder remembers the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", r.Header.Get(common.RequestIDHeaderName),
		)
	})
}
