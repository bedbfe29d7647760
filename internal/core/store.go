package core

import (
	"sort"
	"sync"

	"github.com/thisdougb/healthview/internal/metrics"
)

// Change is published to observers after a value is applied.
type Change struct {
	Key   string
	Value string
}

type applyRequest struct {
	changes []Change
	replace bool
	applied chan struct{}
}

// Store is the observable snapshot. Writers never touch the map: every
// write is handed to a single apply goroutine, which is the only context
// that mutates the snapshot and notifies observers. Readers get copies.
type Store struct {
	mu   sync.RWMutex
	data map[string]string

	requests  chan applyRequest
	submitMu  sync.RWMutex // held for read while sending, for write by Close
	closed    bool
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	subsMu     sync.Mutex
	subs       map[chan Change]struct{}
	subsClosed bool

	metrics *metrics.Metrics
}

// NewStore creates an empty store and starts its apply goroutine.
func NewStore(m *metrics.Metrics) *Store {
	s := &Store{
		data:     make(map[string]string),
		requests: make(chan applyRequest, 64),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		subs:     make(map[chan Change]struct{}),
		metrics:  m,
	}
	go s.run()
	return s
}

// Apply replaces the value of key. The returned channel is closed once the
// write is visible to readers and observers have been notified. After Close
// the write is dropped and the channel is already closed.
func (s *Store) Apply(key, value string) <-chan struct{} {
	return s.submit(applyRequest{changes: []Change{{Key: key, Value: value}}})
}

// Replace swaps in a whole snapshot in one step.
func (s *Store) Replace(snapshot map[string]string) <-chan struct{} {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	changes := make([]Change, 0, len(keys))
	for _, k := range keys {
		changes = append(changes, Change{Key: k, Value: snapshot[k]})
	}
	return s.submit(applyRequest{changes: changes, replace: true})
}

func (s *Store) submit(req applyRequest) <-chan struct{} {
	req.applied = make(chan struct{})

	s.submitMu.RLock()
	defer s.submitMu.RUnlock()
	if s.closed {
		close(req.applied)
		return req.applied
	}
	s.requests <- req
	return req.applied
}

func (s *Store) run() {
	defer close(s.stopped)

	for {
		select {
		case req := <-s.requests:
			s.apply(req)
		case <-s.done:
			// drain anything queued before Close
			for {
				select {
				case req := <-s.requests:
					s.apply(req)
				default:
					s.closeSubscribers()
					return
				}
			}
		}
	}
}

func (s *Store) apply(req applyRequest) {
	s.mu.Lock()
	if req.replace {
		s.data = make(map[string]string, len(req.changes))
	}
	for _, c := range req.changes {
		s.data[c.Key] = c.Value
	}
	entries := len(s.data)
	s.mu.Unlock()

	s.metrics.ObserveWrite(entries)

	for _, c := range req.changes {
		s.notify(c)
	}
	close(req.applied)
}

// notify never blocks the apply goroutine; a full observer misses the change.
func (s *Store) notify(c Change) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// Subscribe registers an observer. The channel is closed by Close or by the
// returned cancel func.
func (s *Store) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 32)

	s.subsMu.Lock()
	if s.subsClosed {
		s.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()

	cancel := func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Store) closeSubscribers() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subsClosed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

// Snapshot returns a copy of the current values.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Get returns the value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Len returns the number of keys held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close applies queued writes, closes observer channels and stops the
// apply goroutine.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.submitMu.Lock()
		s.closed = true
		s.submitMu.Unlock()
		close(s.done)
	})
	<-s.stopped
}
