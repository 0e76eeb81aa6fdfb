package integrations

import (
	"encoding/json"
	"net/http"
)

// Connector describes one external integration on the settings page.
type Connector struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"` // email | sms | queue
	Provider string `json:"provider"`
	Enabled  bool   `json:"enabled"`
}

// Handler serves GET /api/integrations/. The connector list is fixed at
// startup from configuration.
type Handler struct {
	connectors []Connector
}

// NewHandler creates an integrations handler.
func NewHandler(connectors []Connector) *Handler {
	if connectors == nil {
		connectors = []Connector{}
	}
	return &Handler{connectors: connectors}
}

// List returns the configured connectors.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.connectors)
}
