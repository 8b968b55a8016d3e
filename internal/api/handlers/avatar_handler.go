package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/rskdev/pettycash-be/internal/services"
)

// AvatarHandler serves the read-only avatar catalog.
type AvatarHandler struct {
	service services.AvatarServiceProvider
}

// NewAvatarHandler creates a new AvatarHandler.
func NewAvatarHandler(service services.AvatarServiceProvider) *AvatarHandler {
	return &AvatarHandler{service: service}
}

// List handles the request for all avatars.
func (h *AvatarHandler) List(w http.ResponseWriter, r *http.Request) {
	avatars, err := h.service.ListAvatars()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list avatars")
		http.Error(w, "Failed to list avatars", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, avatars)
}
