package core

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thisdougb/healthview/internal/metrics"
)

func waitApplied(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("write was not applied")
	}
}

func TestStoreApply(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	waitApplied(t, s.Apply("Heart Rate", "72.00"))

	v, ok := s.Get("Heart Rate")
	require.True(t, ok)
	assert.Equal(t, "72.00", v)
	assert.Equal(t, 1, s.Len())

	waitApplied(t, s.Apply("Heart Rate", "80.00"))
	v, _ = s.Get("Heart Rate")
	assert.Equal(t, "80.00", v)
	assert.Equal(t, 1, s.Len())
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	waitApplied(t, s.Apply("Height", "1.75"))

	snap := s.Snapshot()
	snap["Height"] = "changed"
	snap["Extra"] = "x"

	v, _ := s.Get("Height")
	assert.Equal(t, "1.75", v)
	assert.Equal(t, 1, s.Len())
}

func TestStoreReplace(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	waitApplied(t, s.Apply("Stale", "1"))
	waitApplied(t, s.Replace(map[string]string{"A": "1", "B": "2"}))

	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, s.Snapshot())
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	changes, cancel := s.Subscribe()
	defer cancel()

	waitApplied(t, s.Apply("Body Mass", "70.00"))

	select {
	case c := <-changes:
		assert.Equal(t, Change{Key: "Body Mass", Value: "70.00"}, c)
	case <-time.After(time.Second):
		t.Fatal("observer was not notified")
	}
}

func TestStoreSubscribeCancel(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	changes, cancel := s.Subscribe()
	cancel()
	cancel()

	_, open := <-changes
	assert.False(t, open)

	// writes after cancel must not panic on the closed channel
	waitApplied(t, s.Apply("A", "1"))
}

func TestStoreCloseClosesSubscribers(t *testing.T) {
	s := NewStore(nil)
	changes, _ := s.Subscribe()

	s.Close()

	_, open := <-changes
	assert.False(t, open)

	late, _ := s.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestStoreApplyAfterClose(t *testing.T) {
	s := NewStore(nil)
	s.Close()
	s.Close()

	waitApplied(t, s.Apply("A", "1"))
	assert.Equal(t, 0, s.Len())
}

func TestStoreConcurrentApply(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-s.Apply(fmt.Sprintf("key-%d", i), fmt.Sprintf("%d", i))
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}

func TestStoreMetrics(t *testing.T) {
	m := metrics.New(nil)
	s := NewStore(m)
	defer s.Close()

	waitApplied(t, s.Apply("A", "1"))
	waitApplied(t, s.Apply("B", "2"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.SnapshotWritesTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SnapshotEntries))
}
