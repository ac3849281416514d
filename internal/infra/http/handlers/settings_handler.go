package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/session"
	"github.com/xavierca1/lead-portal/internal/usecase"
)

type SettingsHandler struct {
	settings *usecase.SettingsUseCase
	log      logrus.FieldLogger
}

func NewSettingsHandler(settings *usecase.SettingsUseCase, log logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{settings: settings, log: log}
}

// Get handles GET /settings. Administrators see the full record, everyone
// else the public part.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if s := session.FromContext(r.Context()); s != nil && s.IsAdmin() {
		settings, err := h.settings.Get(r.Context())
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
		return
	}

	public, err := h.settings.Public(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, public)
}

// Update handles PUT /settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input entity.Settings
	if !decodeJSON(w, r, &input) {
		return
	}

	settings, err := h.settings.Update(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
