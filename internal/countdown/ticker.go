// Package countdown keeps live countdown state for any number of deadlines off a single
// shared timer and fans snapshots out to subscribers.
package countdown

import (
	"sync"
	"time"

	"auction-bff/internal/deadline"
	"auction-bff/internal/models"
	"auction-bff/utils"

	"github.com/jonboulle/clockwork"
)

// TickInterval is the fixed recompute cadence
const TickInterval = time.Second

// Clock is the time source the ticker runs on.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// Snapshot maps tracked ids to their countdown state at one tick
type Snapshot map[string]models.CountdownState

type trackedDeadline struct {
	deadline  models.Deadline
	last      int64 // last emitted remaining seconds, -1 before the first emission
	observers int   // open ObserveCountdown subscriptions on this id
	external  bool  // registered through Track; observers never untrack it
}

// Ticker multiplexes every tracked deadline onto one clock ticker.
// The ticker only runs while at least one id is tracked.
type Ticker struct {
	clock Clock

	mu      sync.Mutex
	tracked map[string]*trackedDeadline
	subs    map[string]*Subscription
	stop    chan struct{} // non-nil while the tick loop runs
	closed  bool

	wg sync.WaitGroup
}

// NewTicker creates an idle ticker on the given clock
func NewTicker(clock Clock) *Ticker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ticker{
		clock:   clock,
		tracked: make(map[string]*trackedDeadline),
		subs:    make(map[string]*Subscription),
	}
}

// Track registers d under id, replacing any deadline already tracked for it.
// Subscribers receive a fresh snapshot before Track returns.
func (t *Ticker) Track(id string, d models.Deadline) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trackLocked(id, d, true)
}

// Untrack stops tracking id. No snapshot containing id is delivered after Untrack returns.
func (t *Ticker) Untrack(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.untrackLocked(id)
}

func (t *Ticker) trackLocked(id string, d models.Deadline, external bool) *trackedDeadline {
	if t.closed {
		return nil
	}

	prev, ok := t.tracked[id]
	if ok {
		prev.external = prev.external || external
		if sameDeadline(prev.deadline, d) {
			return prev
		}
	}
	if !d.Valid {
		utils.Warn("countdown: malformed deadline, treating as expired", map[string]any{
			"id":       id,
			"deadline": d.Raw,
		})
	}
	tr := &trackedDeadline{deadline: d, last: -1, external: external}
	if ok {
		tr.observers = prev.observers
		tr.external = prev.external
	}
	t.tracked[id] = tr
	if t.stop == nil {
		t.startLocked()
	}
	t.republishLocked()
	return tr
}

func (t *Ticker) untrackLocked(id string) {
	if _, ok := t.tracked[id]; !ok {
		return
	}
	delete(t.tracked, id)
	if len(t.tracked) == 0 {
		t.stopLocked()
	}
	t.republishLocked()
}

// release drops one observer of id and untracks it once nothing else holds it
func (t *Ticker) release(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, ok := t.tracked[id]
	if !ok {
		return
	}
	if tr.observers > 0 {
		tr.observers--
	}
	if tr.observers > 0 || tr.external {
		return
	}
	t.untrackLocked(id)
}

// Subscribe returns a subscription receiving snapshots restricted to ids, or all ids when none are given.
// The current snapshot is delivered immediately.
func (t *Ticker) Subscribe(ids ...string) *Subscription {
	sub := &Subscription{
		ID:     utils.ShortID(),
		ch:     make(chan Snapshot, 1),
		ticker: t,
	}
	if len(ids) > 0 {
		sub.ids = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			sub.ids[id] = struct{}{}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		close(sub.ch)
		return sub
	}
	t.subs[sub.ID] = sub
	t.deliverLocked(sub, t.computeLocked(t.clock.Now(), false), true)
	return sub
}

// ObserveCountdown tracks d under id and subscribes to it. Observers of the same id share one
// tracked deadline; it is untracked when the last observer closes, unless it was registered with Track.
func (t *Ticker) ObserveCountdown(id string, d models.Deadline) *Subscription {
	t.mu.Lock()
	if tr := t.trackLocked(id, d, false); tr != nil {
		tr.observers++
	}
	t.mu.Unlock()

	sub := t.Subscribe(id)
	sub.releaseOnClose = id
	return sub
}

// Current returns the state of id at this instant
func (t *Ticker) Current(id string) (models.CountdownState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, ok := t.tracked[id]
	if !ok {
		return models.CountdownState{}, false
	}
	return clamp(tr, deadline.Remaining(tr.deadline, t.clock.Now())), true
}

// Snapshot returns the state of every tracked id at this instant
func (t *Ticker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.computeLocked(t.clock.Now(), false)
}

// Tracked reports how many ids are tracked
func (t *Ticker) Tracked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tracked)
}

// Running reports whether the underlying clock ticker is active
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Close stops the tick loop and closes every subscription channel
func (t *Ticker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.stopLocked()
	for id, sub := range t.subs {
		close(sub.ch)
		delete(t.subs, id)
	}
	t.tracked = make(map[string]*trackedDeadline)
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Ticker) startLocked() {
	stop := make(chan struct{})
	t.stop = stop
	tk := t.clock.NewTicker(TickInterval)

	t.wg.Add(1)
	go t.run(tk, stop)
}

func (t *Ticker) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

func (t *Ticker) run(tk clockwork.Ticker, stop <-chan struct{}) {
	defer t.wg.Done()
	defer tk.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tk.Chan():
			t.mu.Lock()
			select {
			case <-stop:
				t.mu.Unlock()
				return
			default:
			}
			snap := t.computeLocked(t.clock.Now(), true)
			for _, sub := range t.subs {
				t.deliverLocked(sub, snap, false)
			}
			t.mu.Unlock()
		}
	}
}

// republishLocked drops snapshots still pending in subscriber buffers and replaces them with the
// current state, so nothing computed from a replaced or removed deadline reaches a reader
func (t *Ticker) republishLocked() {
	snap := t.computeLocked(t.clock.Now(), true)
	for _, sub := range t.subs {
		select {
		case <-sub.ch:
		default:
		}
		t.deliverLocked(sub, snap, true)
	}
}

func (t *Ticker) computeLocked(now time.Time, commit bool) Snapshot {
	snap := make(Snapshot, len(t.tracked))
	for id, tr := range t.tracked {
		st := clamp(tr, deadline.Remaining(tr.deadline, now))
		if commit {
			tr.last = st.RemainingSeconds
		}
		snap[id] = st
	}
	return snap
}

// deliverLocked hands snap to sub without blocking; an unread older snapshot is replaced.
// Filtered subscriptions skip empty tick snapshots unless force is set.
func (t *Ticker) deliverLocked(sub *Subscription, snap Snapshot, force bool) {
	view := snap
	if sub.ids != nil {
		view = make(Snapshot, len(sub.ids))
		for id := range sub.ids {
			if st, ok := snap[id]; ok {
				view[id] = st
			}
		}
		if len(view) == 0 && !force {
			return
		}
	}

	select {
	case sub.ch <- view:
		return
	default:
	}
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- view:
	default:
	}
}

func (t *Ticker) unsubscribe(sub *Subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.subs[sub.ID]; !ok {
		return
	}
	delete(t.subs, sub.ID)
	close(sub.ch)
}

func sameDeadline(a, b models.Deadline) bool {
	return a.Valid == b.Valid && a.Raw == b.Raw && a.At.Equal(b.At)
}

// clamp keeps remaining seconds non-increasing between emissions of the same deadline
func clamp(tr *trackedDeadline, remaining int64) models.CountdownState {
	if tr.last >= 0 && remaining > tr.last {
		remaining = tr.last
	}
	return deadline.FromRemaining(remaining)
}

// Subscription receives countdown snapshots until closed
type Subscription struct {
	ID string

	ids            map[string]struct{}
	ch             chan Snapshot
	ticker         *Ticker
	releaseOnClose string
	once           sync.Once
}

// C returns the snapshot channel. It is closed when the subscription or the ticker is closed.
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Close unsubscribes; it is safe to call more than once
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.ticker.unsubscribe(s)
		if s.releaseOnClose != "" {
			s.ticker.release(s.releaseOnClose)
		}
	})
}
