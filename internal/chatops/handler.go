package chatops

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/trainwatch/trainwatch/internal/storage"
)

// Handler receives Slack slash-command webhooks and answers from run history.
type Handler struct {
	db *storage.DB
}

// NewHandler creates a ChatOps webhook handler.
func NewHandler(db *storage.DB) *Handler {
	return &Handler{db: db}
}

// HandleSlack handles Slack slash command webhooks.
func (h *Handler) HandleSlack(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeSlack(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	raw := strings.TrimSpace(r.FormValue("text"))
	command := strings.TrimSpace(r.FormValue("command"))
	if command != "" {
		raw = strings.TrimSpace(command + " " + raw)
	}

	response, status := h.handleCommand(raw)
	h.writeSlack(w, response, status)
}

func (h *Handler) handleCommand(input string) (string, int) {
	cmd, err := ParseCommand(input)
	if err != nil {
		if errors.Is(err, errCommandNotFound) {
			return "unknown command. Try: trainwatch status | trainwatch runs | trainwatch log <run-id>", http.StatusBadRequest
		}
		return fmt.Sprintf("invalid command: %v", err), http.StatusBadRequest
	}

	message, execErr := Execute(cmd, h.db)
	if execErr != nil {
		return execErr.Error(), http.StatusBadRequest
	}

	return message, http.StatusOK
}

func (h *Handler) writeSlack(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"text": message})
}
