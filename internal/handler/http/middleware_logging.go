package http

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/rs/zerolog"
)

// requestSummary collects what a handler did with a request so that the
// access log line can carry it. Handlers fill it through summaryFromRequest.
type requestSummary struct {
	userID     int64
	entityType string
	items      int
	conflicts  int
	itemErrors int
}

type summaryKey struct{}

// summaryFromRequest returns the summary installed by withLogging, or a
// detached one when the handler runs without it.
func summaryFromRequest(r *http.Request) *requestSummary {
	if s, ok := r.Context().Value(summaryKey{}).(*requestSummary); ok {
		return s
	}
	return &requestSummary{}
}

func (s *requestSummary) addTo(e *zerolog.Event) *zerolog.Event {
	if s.userID > 0 {
		e = e.Int64("user_id", s.userID)
	}
	if s.entityType != "" {
		e = e.Str("entity_type", s.entityType)
	}
	if s.items > 0 {
		e = e.Int("items", s.items)
	}
	if s.conflicts > 0 {
		e = e.Int("conflicts", s.conflicts)
	}
	if s.itemErrors > 0 {
		e = e.Int("item_errors", s.itemErrors)
	}
	return e
}

// withLogging writes one access log line per request. Server errors log at
// error level and client errors at warn.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()

		summary := &requestSummary{}
		r = r.WithContext(context.WithValue(r.Context(), summaryKey{}, summary))
		lw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(lw, r)

		status := lw.statusCode()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}

		summary.addTo(event).
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
