package healthview

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/thisdougb/healthview/internal/config"
	"github.com/thisdougb/healthview/internal/core"
	"github.com/thisdougb/healthview/internal/metrics"
	"github.com/thisdougb/healthview/internal/source"
	"github.com/thisdougb/healthview/internal/view"
)

// Change is a single snapshot update delivered to subscribers.
type Change = core.Change

// Options configures a Client.
type Options struct {
	// Source is the health data source. A nil Source serves the offline
	// snapshot.
	Source source.Source
	// Identity is shown in Dump output.
	Identity string
	// Registry receives the client's Prometheus collectors. A private
	// registry is created when nil.
	Registry *prometheus.Registry
}

// Client is the public interface for the health snapshot
type Client struct {
	builder  *core.Builder
	source   source.Source
	registry *prometheus.Registry
}

// NewClient creates a client over opts.Source. The client owns the source
// and closes it in Close.
func NewClient(opts Options) *Client {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	b := core.NewBuilder(opts.Source, core.NewStore(m), m)
	b.Info(opts.Identity)

	return &Client{
		builder:  b,
		source:   opts.Source,
		registry: reg,
	}
}

// NewClientFromEnv opens the source named by HEALTHVIEW_SOURCE and sets the
// identity from HEALTHVIEW_IDENTITY.
func NewClientFromEnv() (*Client, error) {
	src, err := source.Open(source.LoadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open health source: %w", err)
	}

	return NewClient(Options{
		Source:   src,
		Identity: config.StringValue("HEALTHVIEW_IDENTITY"),
	}), nil
}

// Start populates the snapshot, either from the offline values or by
// requesting read access and fetching every metric. The returned channel
// closes once every value has been applied. Start fails only when access is
// denied or cannot be requested.
func (c *Client) Start(ctx context.Context) (<-chan struct{}, error) {
	return c.builder.Start(ctx)
}

// Snapshot returns a copy of the current display name to value map.
func (c *Client) Snapshot() map[string]string {
	return c.builder.Snapshot()
}

// Subscribe delivers every later snapshot change until cancel is called or
// the client closes.
func (c *Client) Subscribe() (<-chan Change, func()) {
	return c.builder.Store().Subscribe()
}

// State returns "uninitialized", "authorized" or "denied".
func (c *Client) State() string {
	return c.builder.State().String()
}

// Dump returns a JSON byte-string.
func (c *Client) Dump() string {
	return c.builder.Dump()
}

// Observe renders the named view ("phone" or "watch") to w now and after
// every change, until ctx ends or the client closes.
func (c *Client) Observe(ctx context.Context, viewName string, w io.Writer) error {
	v, ok := view.ByName(viewName)
	if !ok {
		return fmt.Errorf("unknown view %q", viewName)
	}
	return view.NewObserver(c.builder.Store(), v, w).Run(ctx)
}

// Registry returns the registry holding the client's collectors.
func (c *Client) Registry() *prometheus.Registry {
	return c.registry
}

// Close stops the snapshot store and closes the source.
func (c *Client) Close() error {
	c.builder.Close()
	if c.source != nil {
		if err := c.source.Close(); err != nil {
			return fmt.Errorf("failed to close source: %w", err)
		}
	}
	return nil
}
