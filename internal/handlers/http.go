package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/thisdougb/healthview/internal/config"
	"github.com/thisdougb/healthview/internal/core"
	"github.com/thisdougb/healthview/internal/view"
)

// StateInterface defines the interface that handlers need from the state
type StateInterface interface {
	Identity() string
	State() core.AccessState
	Snapshot() map[string]string
}

// SnapshotResponse is the body served by SnapshotHandler.
type SnapshotResponse struct {
	Identity string     `json:"identity"`
	State    string     `json:"state"`
	Snapshot []view.Row `json:"snapshot"`
}

// SnapshotHandler returns an HTTP handler that serves the current snapshot
// as JSON, sorted by metric name
func SnapshotHandler(state StateInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, SnapshotResponse{
			Identity: state.Identity(),
			State:    state.State().String(),
			Snapshot: view.Rows(state.Snapshot()),
		})
	}
}

// ViewHandler returns an HTTP handler that serves one layout of the snapshot.
// With ?format=text the layout is rendered as plain text instead of JSON.
func ViewHandler(state StateInterface, v view.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows := view.Rows(state.Snapshot())

		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			if err := v.Render(w, rows); err != nil {
				config.LogError(r.Context(), "render failed", zap.String("view", v.Name()), zap.Error(err))
			}
			return
		}

		writeJSON(w, http.StatusOK, v.Model(rows))
	}
}

// StatusHandler returns a simple UP/DENIED status endpoint
// Returns 200 OK unless read access was denied, then 503 Service Unavailable
func StatusHandler(state StateInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")

		if state.State() == core.Denied {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "DENIED\n")
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "UP\n")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.MarshalIndent(body, "", "    ")
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "%s\n", data)
}
