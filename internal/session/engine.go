// Package session runs timed typing sessions and scores them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

// DefaultDuration is the countdown length in seconds.
const DefaultDuration = 60

// ErrInvalidTransition reports an operation outside its valid state.
var ErrInvalidTransition = errors.New("invalid session state transition")

// State is the lifecycle state of a session.
type State int

const (
	Idle State = iota
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TextSource supplies reference passages.
type TextSource interface {
	Select() string
}

// Recorder persists finished sessions.
type Recorder interface {
	Record(ctx context.Context, userID string, wpm, accuracy int) (model.ScoreRecord, error)
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	State     State
	Reference string
	Input     string
	Duration  int
	Remaining int
	Correct   int
	Total     int
	WPM       int
	Accuracy  int
	UserID    string
	// Counting is false while a first-keystroke session waits for input.
	Counting bool
	// Record is set once a completed session has been saved.
	Record  *model.ScoreRecord
	SaveErr error
}

// Elapsed returns the seconds counted down so far.
func (s Snapshot) Elapsed() int {
	return s.Duration - s.Remaining
}

// Engine owns the single in-flight session.
type Engine struct {
	mu sync.Mutex

	texts       TextSource
	recorder    Recorder
	newTicker   TickerFactory
	logger      *slog.Logger
	duration    int
	policy      model.StartPolicy
	guestScores bool
	listener    func(Snapshot)

	userID    string
	state     State
	reference []rune
	input     []rune
	remaining int
	correct   int
	counting  bool

	finalWPM      int
	finalAccuracy int
	record        *model.ScoreRecord
	saveErr       error

	gen  uint64
	stop chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithDuration sets the countdown length in seconds.
func WithDuration(seconds int) Option {
	return func(e *Engine) {
		if seconds > 0 {
			e.duration = seconds
		}
	}
}

// WithStartPolicy selects when the countdown is armed.
func WithStartPolicy(p model.StartPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithGuestScores controls whether sessions without a user are recorded.
func WithGuestScores(enabled bool) Option {
	return func(e *Engine) { e.guestScores = enabled }
}

// WithTicker replaces the wall-clock ticker.
func WithTicker(f TickerFactory) Option {
	return func(e *Engine) { e.newTicker = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New constructs an idle Engine with a passage already selected.
func New(texts TextSource, recorder Recorder, opts ...Option) *Engine {
	e := &Engine{
		texts:       texts,
		recorder:    recorder,
		newTicker:   NewRealTicker,
		logger:      slog.Default(),
		duration:    DefaultDuration,
		policy:      model.StartExplicit,
		guestScores: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resetLocked()
	return e
}

// SetUser sets the identity tagged on recorded scores. Empty means guest.
func (e *Engine) SetUser(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userID = userID
}

// SetListener registers fn for timer-driven changes. fn runs on the timer
// goroutine without the engine lock held, so it may call back into the engine.
// Changes made through Engine methods are returned to the caller instead.
func (e *Engine) SetListener(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = fn
}

// Snapshot returns the current session view.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Start begins a fresh session with a new passage. A running session is
// discarded without being recorded. The countdown stops when ctx is done.
func (e *Engine) Start(ctx context.Context) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Running {
		e.logger.Debug("discarding running session on start")
	}
	e.resetLocked()
	e.state = Running
	if e.policy != model.StartFirstKeystroke {
		e.armLocked(ctx)
	}
	return e.snapshotLocked()
}

// UpdateInput replaces the typed text. Typing the passage exactly completes the session.
func (e *Engine) UpdateInput(ctx context.Context, value string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Running {
		return e.snapshotLocked(), fmt.Errorf("update input while %s: %w", e.state, ErrInvalidTransition)
	}
	e.input = []rune(value)
	e.correct = countCorrect(e.reference, e.input)
	if !e.counting && len(e.input) > 0 {
		e.armLocked(ctx)
	}
	if value == string(e.reference) {
		e.finishLocked(ctx)
	}
	return e.snapshotLocked(), nil
}

// Tick counts down one second and completes the session at zero.
func (e *Engine) Tick(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Running {
		return e.snapshotLocked(), fmt.Errorf("tick while %s: %w", e.state, ErrInvalidTransition)
	}
	e.tickLocked(ctx)
	return e.snapshotLocked(), nil
}

// Submit ends the session early and records it.
func (e *Engine) Submit(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Running {
		return e.snapshotLocked(), fmt.Errorf("submit while %s: %w", e.state, ErrInvalidTransition)
	}
	e.finishLocked(ctx)
	e.remaining = 0
	return e.snapshotLocked(), nil
}

// Reset discards the session and selects a new passage.
func (e *Engine) Reset() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
	return e.snapshotLocked()
}

func (e *Engine) resetLocked() {
	e.disarmLocked()
	e.state = Idle
	e.reference = []rune(e.texts.Select())
	e.input = nil
	e.remaining = e.duration
	e.correct = 0
	e.counting = false
	e.finalWPM = 0
	e.finalAccuracy = 0
	e.record = nil
	e.saveErr = nil
}

func (e *Engine) tickLocked(ctx context.Context) {
	if !e.counting {
		return
	}
	if e.remaining > 0 {
		e.remaining--
	}
	if e.remaining == 0 {
		e.finishLocked(ctx)
	}
}

func (e *Engine) finishLocked(ctx context.Context) {
	e.disarmLocked()
	e.finalWPM = stats.WPM(e.correct, e.duration-e.remaining)
	e.finalAccuracy = stats.Accuracy(e.correct, len(e.input))
	e.state = Completed

	userID := e.userIDLocked()
	if userID == model.GuestID && !e.guestScores {
		e.logger.Debug("guest score not recorded", "wpm", e.finalWPM, "accuracy", e.finalAccuracy)
		return
	}
	rec, err := e.recorder.Record(ctx, userID, e.finalWPM, e.finalAccuracy)
	if err != nil {
		e.saveErr = err
		e.logger.Error("failed to save score", "user_id", userID, "error", err)
		return
	}
	e.record = &rec
}

func (e *Engine) armLocked(ctx context.Context) {
	e.disarmLocked()
	e.gen++
	e.counting = true
	stop := make(chan struct{})
	e.stop = stop
	go e.countdown(ctx, e.gen, e.newTicker(time.Second), stop)
}

func (e *Engine) disarmLocked() {
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	e.gen++
}

func (e *Engine) countdown(ctx context.Context, gen uint64, t Ticker, stop <-chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-t.C():
			snap, listener, ok := e.timerTick(ctx, gen)
			if !ok {
				return
			}
			if listener != nil {
				listener(snap)
			}
			if snap.State != Running {
				return
			}
		}
	}
}

func (e *Engine) timerTick(ctx context.Context, gen uint64) (Snapshot, func(Snapshot), bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.state != Running {
		return Snapshot{}, nil, false
	}
	e.tickLocked(ctx)
	return e.snapshotLocked(), e.listener, true
}

func (e *Engine) userIDLocked() string {
	if e.userID == "" {
		return model.GuestID
	}
	return e.userID
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     e.state,
		Reference: string(e.reference),
		Input:     string(e.input),
		Duration:  e.duration,
		Remaining: e.remaining,
		Correct:   e.correct,
		Total:     len(e.input),
		UserID:    e.userIDLocked(),
		Counting:  e.counting,
		SaveErr:   e.saveErr,
	}
	if e.state == Completed {
		snap.WPM = e.finalWPM
		snap.Accuracy = e.finalAccuracy
	} else {
		snap.WPM = stats.WPM(e.correct, e.duration-e.remaining)
		snap.Accuracy = stats.Accuracy(e.correct, len(e.input))
	}
	if e.record != nil {
		rec := *e.record
		snap.Record = &rec
	}
	return snap
}

func countCorrect(reference, input []rune) int {
	n := min(len(reference), len(input))
	correct := 0
	for i := 0; i < n; i++ {
		if input[i] == reference[i] {
			correct++
		}
	}
	return correct
}
