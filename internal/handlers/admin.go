package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/thisdougb/healthview/internal/catalog"
	"github.com/thisdougb/healthview/internal/format"
)

// SnapshotSummary reports how complete the current snapshot is. TotalKeys
// counts the catalog keys and Entries counts the keys present in the snapshot.
type SnapshotSummary struct {
	Identity     string   `json:"identity" yaml:"identity"`
	State        string   `json:"state" yaml:"state"`
	TotalKeys    int      `json:"total_keys" yaml:"total_keys"`
	Entries      int      `json:"entries" yaml:"entries"`
	Available    int      `json:"available" yaml:"available"`
	NotAvailable []string `json:"not_available" yaml:"not_available"`
	Missing      []string `json:"missing" yaml:"missing"`
	Complete     bool     `json:"complete" yaml:"complete"`
}

// Summarize compares the snapshot against the catalog key set. A snapshot
// is complete when every key is present, whether or not its value is "N/A".
func Summarize(state StateInterface) SnapshotSummary {
	snapshot := state.Snapshot()
	keys := catalog.Keys()

	summary := SnapshotSummary{
		Identity:     state.Identity(),
		State:        state.State().String(),
		TotalKeys:    len(keys),
		Entries:      len(snapshot),
		NotAvailable: []string{},
		Missing:      []string{},
	}

	for _, key := range keys {
		value, ok := snapshot[key]
		switch {
		case !ok:
			summary.Missing = append(summary.Missing, key)
		case value == format.NotAvailable:
			summary.NotAvailable = append(summary.NotAvailable, key)
		default:
			summary.Available++
		}
	}

	summary.Complete = len(summary.Missing) == 0
	return summary
}

// GetSnapshotSummary returns the summary as indented JSON.
func GetSnapshotSummary(state StateInterface) (string, error) {
	output, err := json.MarshalIndent(Summarize(state), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(output), nil
}

// ExportSnapshot writes the snapshot, sorted by key, in json or yaml.
func ExportSnapshot(state StateInterface, exportFormat string) (string, error) {
	snapshot := state.Snapshot()

	switch exportFormat {
	case "json":
		output, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(output), nil
	case "yaml":
		// yaml.v3 sorts map keys
		output, err := yaml.Marshal(snapshot)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return string(output), nil
	}
	return "", fmt.Errorf("unsupported format: %s (use 'json' or 'yaml')", exportFormat)
}

// SummaryHandler serves GetSnapshotSummary as JSON.
func SummaryHandler(state StateInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		output, err := GetSnapshotSummary(state)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "%s\n", output)
	}
}

// ExportHandler serves ExportSnapshot, selecting the format with ?format=
// (default json).
func ExportHandler(state StateInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exportFormat := r.URL.Query().Get("format")
		if exportFormat == "" {
			exportFormat = "json"
		}

		output, err := ExportSnapshot(state, exportFormat)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if exportFormat == "yaml" {
			w.Header().Set("Content-Type", "application/yaml")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "%s\n", output)
	}
}
