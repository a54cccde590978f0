package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/soundctl/tpa2016-go/internal/models"
)

func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

func (h *Handlers) updateAmp(w http.ResponseWriter, r *http.Request) {
	var upd models.AmpUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, models.ErrBadRequest("invalid JSON: "+err.Error()))
		return
	}
	state, appErr := h.ctrl.Update(upd)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) getFaults(w http.ResponseWriter, r *http.Request) {
	status, appErr := h.ctrl.Faults()
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handlers) getPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"presets": h.ctrl.PresetNames()})
}

func (h *Handlers) loadPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	state, appErr := h.ctrl.LoadPreset(name)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) getRegisters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"registers": h.ctrl.Registers()})
}

func (h *Handlers) doSync(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.Sync()
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
