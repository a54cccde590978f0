// Package api implements the HTTP REST API for the tpa2016d daemon.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/soundctl/tpa2016-go/internal/models"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl   Controller
	events EventBus
}

// Controller is the interface the handlers use to drive the amplifier.
type Controller interface {
	State() models.AmpState
	Update(upd models.AmpUpdate) (models.AmpState, *models.AppError)
	LoadPreset(name string) (models.AmpState, *models.AppError)
	PresetNames() []string
	Faults() (models.FaultStatus, *models.AppError)
	Sync() (models.AmpState, *models.AppError)
	Registers() map[string]string
}

// EventBus is the interface for subscribing to state change events.
type EventBus interface {
	Subscribe(id string) <-chan models.AmpState
	Unsubscribe(id string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an AppError as a JSON response.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if appErr, ok := err.(*models.AppError); ok {
		w.WriteHeader(appErr.Status)
		_ = json.NewEncoder(w).Encode(appErr)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(models.ErrInternal(err.Error()))
}
