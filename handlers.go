package healthview

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thisdougb/healthview/internal/handlers"
	"github.com/thisdougb/healthview/internal/view"
)

// SnapshotHandler returns an HTTP handler that serves the snapshot as JSON,
// sorted by name with icons.
func (c *Client) SnapshotHandler() http.HandlerFunc {
	return handlers.SnapshotHandler(c.builder)
}

// PhoneViewHandler serves the phone list layout.
func (c *Client) PhoneViewHandler() http.HandlerFunc {
	return handlers.ViewHandler(c.builder, view.PhoneView{})
}

// WatchViewHandler serves the wearable paged layout.
func (c *Client) WatchViewHandler() http.HandlerFunc {
	return handlers.ViewHandler(c.builder, view.WatchView{})
}

// StatusHandler returns a simple UP/DENIED status endpoint
// Returns 200 OK unless read access was denied, then 503 Service Unavailable
func (c *Client) StatusHandler() http.HandlerFunc {
	return handlers.StatusHandler(c.builder)
}

func (c *Client) SummaryHandler() http.HandlerFunc {
	return handlers.SummaryHandler(c.builder)
}

func (c *Client) ExportHandler() http.HandlerFunc {
	return handlers.ExportHandler(c.builder)
}

// MetricsHandler serves the client's Prometheus collectors.
func (c *Client) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
