package view

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/thisdougb/healthview/internal/config"
	"github.com/thisdougb/healthview/internal/core"
)

// Source is the part of the snapshot store an Observer needs.
type Source interface {
	Subscribe() (<-chan core.Change, func())
	Snapshot() map[string]string
}

// Observer re-renders a view whenever the store changes.
type Observer struct {
	store Source
	view  View
	out   io.Writer
}

func NewObserver(store Source, v View, out io.Writer) *Observer {
	return &Observer{store: store, view: v, out: out}
}

// Run renders once, then again after every change, until ctx ends or the
// store closes. Render errors are logged and do not stop the observer.
func (o *Observer) Run(ctx context.Context) error {
	changes, cancel := o.store.Subscribe()
	defer cancel()

	o.render(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			config.LogDebug(ctx, "snapshot changed", zap.String("key", c.Key), zap.String("view", o.view.Name()))

			// collapse a burst into one render
			drained := false
			for !drained {
				select {
				case _, ok := <-changes:
					if !ok {
						o.render(ctx)
						return nil
					}
				default:
					drained = true
				}
			}
			o.render(ctx)
		}
	}
}

func (o *Observer) render(ctx context.Context) {
	if err := o.view.Render(o.out, Rows(o.store.Snapshot())); err != nil {
		config.LogError(ctx, "render failed", zap.String("view", o.view.Name()), zap.Error(err))
	}
}
