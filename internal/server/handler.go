package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/trainwatch/trainwatch/internal/adapter/trainer"
	"github.com/trainwatch/trainwatch/internal/chatops"
	"github.com/trainwatch/trainwatch/internal/core"
	"github.com/trainwatch/trainwatch/internal/storage"
)

// CallbackFactory builds a fresh lifecycle callback for a named run. The
// serve command injects a factory that wires notifiers and persistence.
type CallbackFactory func(name string) (*core.Callback, error)

// ErrDuplicateRun is reported when a train_begin names a run that is
// already in-flight.
var ErrDuplicateRun = errors.New("run already in-flight")

// Handler processes relayed training lifecycle events.
type Handler struct {
	secret    string
	db        *storage.DB
	newRunner CallbackFactory
	chat      *chatops.Handler
	mu        sync.Mutex
	active    map[string]*core.Callback
}

// NewHandler creates a relay Handler.
func NewHandler(secret string, db *storage.DB, factory CallbackFactory) *Handler {
	return &Handler{
		secret:    secret,
		db:        db,
		newRunner: factory,
		chat:      chatops.NewHandler(db),
		active:    make(map[string]*core.Callback),
	}
}

// eventPayload is the relay wire format: a trainer lifecycle event tagged
// with the run name it belongs to.
type eventPayload struct {
	Run string `json:"run"`
	trainer.Event
}

// HandleEvents is the HTTP handler for POST /api/events.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify HMAC-SHA256 signature when a shared secret is configured.
	if h.secret != "" {
		signature := r.Header.Get("X-Trainwatch-Signature-256")
		if !h.verifySignature(body, signature) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var payload eventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}
	if payload.Run == "" {
		http.Error(w, "missing run name", http.StatusBadRequest)
		return
	}
	if payload.Event.Event == "" {
		http.Error(w, "missing event type", http.StatusBadRequest)
		return
	}

	switch payload.Event.Event {
	case trainer.EventTrainBegin:
		h.handleTrainBegin(w, r, &payload)
	case trainer.EventEpochEnd, trainer.EventTrainEnd, trainer.EventTrainFailed:
		h.handleRunEvent(w, r, &payload)
	default:
		http.Error(w, fmt.Sprintf("unknown event %q", payload.Event.Event), http.StatusBadRequest)
	}
}

func (h *Handler) handleTrainBegin(w http.ResponseWriter, r *http.Request, payload *eventPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.active[payload.Run]; ok {
		http.Error(w, fmt.Sprintf("run %q: %v", payload.Run, ErrDuplicateRun), http.StatusConflict)
		return
	}

	// Also guard against in-flight runs recorded by a previous server
	// process that never reached a terminal phase.
	inFlight, err := h.db.IsInFlight(payload.Run)
	if err != nil {
		log.Printf("[server] in-flight check failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if inFlight {
		http.Error(w, fmt.Sprintf("run %q: %v", payload.Run, ErrDuplicateRun), http.StatusConflict)
		return
	}

	cb, err := h.newRunner(payload.Run)
	if err != nil {
		log.Printf("[server] callback setup failed for %s: %v", payload.Run, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	cb.OnTrainBegin(r.Context(), core.TrainPlan{
		Epochs:  payload.Epochs,
		Metrics: payload.Metrics,
	})
	h.active[payload.Run] = cb
	h.persist(cb)

	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintf(w, "accepted run %s", payload.Run)
}

func (h *Handler) handleRunEvent(w http.ResponseWriter, r *http.Request, payload *eventPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cb, ok := h.active[payload.Run]
	if !ok {
		http.Error(w, fmt.Sprintf("run %q not found", payload.Run), http.StatusNotFound)
		return
	}

	switch payload.Event.Event {
	case trainer.EventEpochEnd:
		cb.OnEpochEnd(r.Context(), core.EpochMetrics{
			Loss:   payload.Loss,
			Values: payload.Values,
		})
	case trainer.EventTrainEnd:
		cb.OnTrainEnd(r.Context())
	case trainer.EventTrainFailed:
		cause := payload.Error
		if cause == "" {
			cause = "training failed"
		}
		cb.OnFailure(r.Context(), fmt.Errorf("%s", cause), payload.Stack)
	}

	h.persist(cb)
	if cb.Phase().Terminal() {
		delete(h.active, payload.Run)
	}

	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintf(w, "accepted event %s for run %s", payload.Event.Event, payload.Run)
}

func (h *Handler) persist(cb *core.Callback) {
	run := cb.Run()
	if err := h.db.SaveRun(&run); err != nil {
		log.Printf("[server] failed to persist run %s: %v", run.ID, err)
	}
}

// HandleListRuns is the HTTP handler for GET /api/runs.
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.db.ListRuns()
	if err != nil {
		log.Printf("[server] list runs failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(runs); err != nil {
		log.Printf("[server] encode runs failed: %v", err)
	}
}

// HandleRunNotifications is the HTTP handler for GET /api/runs/{id}/notifications.
func (h *Handler) HandleRunNotifications(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	run, err := h.db.GetRun(runID)
	if err != nil {
		log.Printf("[server] get run failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, fmt.Sprintf("run %q not found", runID), http.StatusNotFound)
		return
	}

	notifications, err := h.db.GetNotifications(runID)
	if err != nil {
		log.Printf("[server] get notifications failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(notifications); err != nil {
		log.Printf("[server] encode notifications failed: %v", err)
	}
}

// verifySignature checks the HMAC-SHA256 signature of a relayed event body.
func (h *Handler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	// Clients send "sha256=<hex>".
	prefix := "sha256="
	if !strings.HasPrefix(signature, prefix) {
		return false
	}
	sigHex := signature[len(prefix):]

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(sigHex), []byte(expected))
}
