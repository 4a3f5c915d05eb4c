package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/utils"
)

const (
	// maxSyncBody bounds push, pull and resolve bodies after decompression.
	maxSyncBody int64 = 8 << 20
	// maxAuthBody bounds register and login bodies.
	maxAuthBody int64 = 16 << 10
)

// decodeRequest decodes the JSON body into dst and answers the client itself
// when that fails. An empty body is accepted only when allowEmpty is set.
func decodeRequest(w http.ResponseWriter, r *http.Request, funcName string, limit int64, dst any, allowEmpty bool) bool {
	err := utils.DecodeJSON(w, r, limit, dst)
	switch {
	case err == nil:
		return true
	case allowEmpty && errors.Is(err, utils.ErrEmptyBody):
		return true
	}

	log := logger.FromRequest(r)
	if errors.Is(err, utils.ErrBodyTooLarge) {
		log.Warn().Err(err).Str("func", funcName).Msg("request body rejected")
		http.Error(w, app.MsgRequestTooLarge, http.StatusRequestEntityTooLarge)
		return false
	}

	log.Err(err).Str("func", funcName).Msg("Invalid JSON was passed")
	http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
	return false
}
