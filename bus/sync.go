/*
sync.go - Cross-viewer synchronization channel

PURPOSE:
  The same logical employee session can be open in several viewers at
  once (multiple tabs, an admin watching an employee's day). Each viewer
  owns a SyncChannel that keeps its derived state fresh through one
  reconcile function fed by two event sources:

  1. Broadcast messages from sibling viewers ("state changed")
  2. A fixed-interval poll tick (tolerates missed broadcasts)

  Both sources funnel into the same pull path - there is no duplicated
  refresh logic per source.

DEBOUNCE:
  Bursts of triggers within the debounce window collapse into a single
  pull. A broadcast storm from a double-click therefore costs one
  storage round-trip, not five.

FAILURE BEHAVIOR:
  A failed reconcile is logged and otherwise ignored: the viewer keeps
  showing the last successfully computed snapshot and tries again on the
  next tick. Reconcile functions must only swap their published state on
  success, never clear it on error.

SEE ALSO:
  - bus.go: In-process event bus (same-viewer invalidation)
  - api/handlers.go: Mutation paths call Notify after successful writes
*/
package bus

import (
	"context"
	"log"
	"sync"
	"time"
)

// =============================================================================
// TRANSPORT - Broadcast fabric between viewers
// =============================================================================

// Transport carries "state changed" messages between viewers of the same
// logical session. Implementations: LocalHub (in-process), or whatever
// the deployment's real fabric is (WebSocket fan-out, BroadcastChannel).
type Transport interface {
	// Broadcast delivers msg to every other member of the session.
	Broadcast(msg string) error

	// Messages yields broadcasts from sibling viewers.
	Messages() <-chan string

	// Close detaches this member from the session.
	Close() error
}

// =============================================================================
// SYNC CHANNEL
// =============================================================================

const (
	DefaultPollInterval = 30 * time.Second
	DefaultDebounce     = 2 * time.Second
)

// SyncChannel drives one viewer's reconciliation loop.
type SyncChannel struct {
	Transport    Transport
	Reconcile    func(ctx context.Context) error
	PollInterval time.Duration
	Debounce     time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup

	mu       sync.Mutex
	lastPull time.Time
	started  bool
}

func NewSyncChannel(transport Transport, reconcile func(ctx context.Context) error) *SyncChannel {
	return &SyncChannel{
		Transport:    transport,
		Reconcile:    reconcile,
		PollInterval: DefaultPollInterval,
		Debounce:     DefaultDebounce,
		stop:         make(chan struct{}),
	}
}

// Start begins the poll/broadcast loop. The first pull happens immediately
// so a freshly opened viewer never waits a full poll interval.
func (s *SyncChannel) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ticker = time.NewTicker(s.PollInterval)
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
}

// Stop halts the loop and detaches from the transport.
func (s *SyncChannel) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.ticker.Stop()
	s.mu.Unlock()

	close(s.stop)
	s.wg.Wait()
	s.Transport.Close()
}

// Notify broadcasts a "state changed" message to sibling viewers. Called by
// mutation paths after a successful write.
func (s *SyncChannel) Notify(msg string) {
	if err := s.Transport.Broadcast(msg); err != nil {
		log.Printf("[sync] broadcast failed: %v", err)
	}
}

func (s *SyncChannel) run() {
	defer s.wg.Done()

	s.pull()

	for {
		select {
		case <-s.ticker.C:
			s.pull()
		case _, ok := <-s.Transport.Messages():
			if !ok {
				return
			}
			s.pull()
		case <-s.stop:
			return
		}
	}
}

// pull runs the reconcile function unless one ran within the debounce window.
func (s *SyncChannel) pull() {
	s.mu.Lock()
	now := time.Now()
	if now.Sub(s.lastPull) < s.Debounce {
		s.mu.Unlock()
		return
	}
	s.lastPull = now
	s.mu.Unlock()

	if err := s.Reconcile(context.Background()); err != nil {
		// Keep the last good snapshot; the next tick retries.
		log.Printf("[sync] reconcile failed, retaining snapshot: %v", err)
	}
}

// =============================================================================
// LOCAL HUB - In-process transport for tests and single-process deployments
// =============================================================================

// LocalHub fans broadcasts out to every joined member except the sender.
type LocalHub struct {
	mu      sync.Mutex
	members map[*LocalTransport]struct{}
}

func NewLocalHub() *LocalHub {
	return &LocalHub{members: make(map[*LocalTransport]struct{})}
}

// Join attaches a new viewer to the hub.
func (h *LocalHub) Join() *LocalTransport {
	h.mu.Lock()
	defer h.mu.Unlock()

	m := &LocalTransport{hub: h, inbox: make(chan string, 16)}
	h.members[m] = struct{}{}
	return m
}

type LocalTransport struct {
	hub   *LocalHub
	inbox chan string

	closeOnce sync.Once
}

func (t *LocalTransport) Broadcast(msg string) error {
	t.hub.mu.Lock()
	defer t.hub.mu.Unlock()

	for m := range t.hub.members {
		if m == t {
			continue
		}
		select {
		case m.inbox <- msg:
		default:
			// Slow viewer: drop the message, the poll tick covers it.
		}
	}
	return nil
}

func (t *LocalTransport) Messages() <-chan string { return t.inbox }

func (t *LocalTransport) Close() error {
	t.closeOnce.Do(func() {
		t.hub.mu.Lock()
		delete(t.hub.members, t)
		t.hub.mu.Unlock()
		close(t.inbox)
	})
	return nil
}
