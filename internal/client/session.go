package client

import (
	"context"
	"sync"

	"wishboard/internal/app/plan"

	"go.uber.org/zap"
)

// Lister is the read side of the board API a Session needs.
type Lister interface {
	List(ctx context.Context, slug string) ([]*plan.Plan, error)
}

// Snapshot is the in-memory plan set after one applied read.
type Snapshot struct {
	Plans []*plan.Plan
	Seq   uint64
	Err   error
}

// Session keeps the latest plan set of one board in memory. Every read
// carries a sequence number and a response older than the last applied
// one is dropped, so overlapping reads settle on the newest request.
type Session struct {
	lister Lister
	slug   string
	logger *zap.SugaredLogger

	mu      sync.RWMutex
	plans   []*plan.Plan
	issued  uint64
	applied uint64
	loading bool

	onChange      func(Snapshot)
	deliverMu     sync.Mutex
	lastDelivered uint64
	inflight      sync.WaitGroup
}

type SessionOption func(*Session)

// OnChange registers fn to run after every applied read.
func OnChange(fn func(Snapshot)) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

func NewSession(lister Lister, slug string, logger *zap.Logger, opts ...SessionOption) *Session {
	s := &Session{
		lister: lister,
		slug:   slug,
		logger: logger.Sugar(),
		plans:  []*plan.Plan{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh re-reads the whole board. A failed read empties the set and is
// logged. It reports whether the response was applied.
func (s *Session) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.loading = true
	s.mu.Unlock()

	plans, err := s.lister.List(ctx, s.slug)
	return s.apply(seq, plans, err), err
}

func (s *Session) apply(seq uint64, plans []*plan.Plan, err error) bool {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		s.logger.Debugw("Discarding stale read", "seq", seq, "applied", s.applied)
		return false
	}
	s.applied = seq
	s.loading = seq < s.issued

	if err != nil {
		s.logger.Warnw("Failed to read plans", "board", s.slug, "error", err)
		plans = nil
	}
	if plans == nil {
		plans = []*plan.Plan{}
	}
	s.plans = plans
	snap := Snapshot{Plans: s.copyPlans(), Seq: seq, Err: err}
	s.mu.Unlock()

	s.deliver(snap)
	return true
}

// deliver hands snapshots to onChange one at a time and never after a
// newer one.
func (s *Session) deliver(snap Snapshot) {
	if s.onChange == nil {
		return
	}
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if snap.Seq <= s.lastDelivered {
		s.logger.Debugw("Discarding stale snapshot", "seq", snap.Seq, "delivered", s.lastDelivered)
		return
	}
	s.lastDelivered = snap.Seq
	s.onChange(snap)
}

// Watch re-reads the board once per notification until ctx is done or
// notifications is closed. Reads may overlap; the newest request wins.
func (s *Session) Watch(ctx context.Context, notifications <-chan Notification) {
	defer s.inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			s.logger.Debugw("Change received", "type", n.Change.Type, "id", n.Change.ID)
			s.inflight.Add(1)
			go func() {
				defer s.inflight.Done()
				_, _ = s.Refresh(ctx)
			}()
		}
	}
}

// Plans returns a copy of the current set, newest first.
func (s *Session) Plans() []*plan.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyPlans()
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// View filters the current set. Counts always cover the full set.
func (s *Session) View(query string, status plan.StatusFilter) plan.View {
	return plan.Derive(s.Plans(), query, status)
}

func (s *Session) copyPlans() []*plan.Plan {
	out := make([]*plan.Plan, len(s.plans))
	copy(out, s.plans)
	return out
}
