package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ogulcan/mezun/pkg"
	"github.com/ogulcan/mezun/services"
)

// ConnectionHandler, bağlantı (network) endpoint'leri.
type ConnectionHandler struct {
	connectionService services.ConnectionService
}

// NewConnectionHandler, constructor.
func NewConnectionHandler(connectionService services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// Request — POST /api/connections
func (h *ConnectionHandler) Request(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		RecipientID string `json:"recipient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conn, err := h.connectionService.Request(r.Context(), user.ID, req.RecipientID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, conn)
}

// Accept — POST /api/connections/{id}/accept
func (h *ConnectionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(w, r)
	if !ok {
		return
	}

	conn, err := h.connectionService.Accept(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, conn)
}

// List — GET /api/connections
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(w, r)
	if !ok {
		return
	}

	connections, err := h.connectionService.List(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, connections)
}
