// Package api is the loopback HTTP surface the host UI polls for job
// progress and listings while training runs.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trainkit/trainkit/pkg/imageset"
	"github.com/trainkit/trainkit/pkg/logging"
	"github.com/trainkit/trainkit/pkg/metrics"
	"github.com/trainkit/trainkit/pkg/registry"
	"github.com/trainkit/trainkit/pkg/status"
	"github.com/trainkit/trainkit/pkg/sysinfo"
)

// Handler serves the extension's poll API.
type Handler struct {
	state      *status.State
	monitor    *sysinfo.Monitor
	metrics    *metrics.Collector
	modelsRoot string
	log        *logging.Logger
}

// NewHandler creates a Handler around the shared status handle.
func NewHandler(st *status.State, monitor *sysinfo.Monitor, collector *metrics.Collector, modelsRoot string, log *logging.Logger) *Handler {
	return &Handler{
		state:      st,
		monitor:    monitor,
		metrics:    collector,
		modelsRoot: modelsRoot,
		log:        log,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/status", h.Status).Methods("GET")
	r.HandleFunc("/api/interrupt", h.Interrupt).Methods("POST")
	r.HandleFunc("/api/skip", h.Skip).Methods("POST")
	r.HandleFunc("/api/models", h.Models).Methods("GET")
	r.HandleFunc("/api/loras", h.Loras).Methods("GET")
	r.HandleFunc("/api/images", h.Images).Methods("GET")
	r.HandleFunc("/api/memory", h.Memory).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", h.metrics.Handler()).Methods("GET")
}

// Status returns the current job status snapshot the UI polls.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}

// Interrupt raises the cooperative interrupt flag for the running job.
func (h *Handler) Interrupt(w http.ResponseWriter, r *http.Request) {
	h.state.Interrupt()
	h.log.Info("interrupt requested")
	writeJSON(w, http.StatusOK, map[string]string{"status": "interrupting"})
}

// Skip raises the skip flag for the current step.
func (h *Handler) Skip(w http.ResponseWriter, r *http.Request) {
	h.state.Skip()
	writeJSON(w, http.StatusOK, map[string]string{"status": "skipping"})
}

// Models lists trained model checkpoints.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"models": registry.ListModels(h.modelsRoot),
	})
}

// Loras lists selectable LoRA checkpoints.
func (h *Handler) Loras(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"loras": registry.ListLoraModels(h.modelsRoot),
	})
}

// Images enumerates training images below the dir query parameter.
func (h *Handler) Images(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("dir")
	if dir == "" {
		http.Error(w, "missing dir parameter", http.StatusBadRequest)
		return
	}

	images, err := imageset.List(dir)
	if err != nil {
		h.log.Error("image listing failed", map[string]interface{}{"dir": dir, "error": err.Error()})
		http.Error(w, "failed to list images", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dir":    dir,
		"count":  len(images),
		"images": images,
	})
}

// Memory returns the current memory report. The read is non-destructive;
// labelled records and the peak tracker belong to the training run and are
// only cleared by its own reset.
func (h *Handler) Memory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report":  h.monitor.Report(),
		"records": h.monitor.Records(),
	})
}

// Health is a trivial liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
