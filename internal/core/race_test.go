//go:build dev

package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thisdougb/healthview/internal/catalog"
	"github.com/thisdougb/healthview/internal/source"
	"github.com/thisdougb/healthview/internal/units"
)

// Run with: go test -race -tags dev ./internal/core/
func TestFetchAllWithConcurrentReaders(t *testing.T) {
	src := source.NewMemorySource()
	for i, d := range catalog.Quantities() {
		src.AddQuantity(source.QuantitySample{
			Type:     d.ID.SampleType(),
			Start:    base.Add(time.Duration(i) * time.Minute),
			Quantity: units.Quantity{Value: float64(i), Unit: d.Unit},
		})
	}
	b, _ := newTestBuilder(t, src)

	changes, cancel := b.Store().Subscribe()
	defer cancel()

	stop := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 8; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				case <-changes:
				default:
					_ = b.Store().Snapshot()
					_ = b.Dump()
					_ = b.State()
				}
			}
		}()
	}

	startAndWait(t, b)
	close(stop)
	readers.Wait()

	assert.Len(t, b.Store().Snapshot(), 16)
}

func TestConcurrentRequestAccess(t *testing.T) {
	src := source.NewMemorySource()
	b, _ := newTestBuilder(t, src)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.RequestAccess(context.Background())
		}()
	}
	wg.Wait()

	require.Equal(t, Authorized, b.State())
	assert.Equal(t, 1, src.AuthorizationRequests())
}
