package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/utils"
)

// checkHash verifies the HashSHA256 header against the raw request body.
// Requests without the header, and every request when no hash key is
// configured, pass through unchecked.
func (h *Handler) checkHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sum := r.Header.Get(utils.HashHeader)
		if h.hasher == nil || sum == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSyncBody))
		if err != nil {
			log.Err(err).Str("func", "*Handler.checkHash").Msg("failed to read request body")
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				http.Error(w, app.MsgRequestTooLarge, http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !h.hasher.Verify(body, sum) {
			log.Error().Str("func", "*Handler.checkHash").
				Str("hash from request", sum).
				Msg("hashes are not equal")
			http.Error(w, app.MsgHashMismatch, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
