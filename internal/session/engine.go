// Package session runs typing challenges: it owns the session state machine,
// classifies input, and commits completed sessions to the profile,
// leaderboards and error heatmap.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shamsear/typevelocity/internal/achievement"
	"github.com/Shamsear/typevelocity/internal/clock"
	"github.com/Shamsear/typevelocity/internal/heatmap"
	"github.com/Shamsear/typevelocity/internal/leaderboard"
	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/profile"
	"github.com/Shamsear/typevelocity/internal/progress"
	"github.com/Shamsear/typevelocity/internal/stats"
	"github.com/Shamsear/typevelocity/internal/typing"
)

var (
	// ErrSessionActive is returned when a session is already running.
	ErrSessionActive = errors.New("a session is already active")
	// ErrNoActiveSession is returned when an operation needs a running session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrIncomplete is returned when completing before the prompt is typed.
	ErrIncomplete = errors.New("prompt is not fully typed")
	// ErrEmptyPrompt is returned for a blank prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// State is the engine's lifecycle position.
type State int

const (
	// Idle means no session has been started.
	Idle State = iota
	// Loading means a prompt is being fetched.
	Loading
	// Active means the player is typing.
	Active
	// Completed means the last session was committed.
	Completed
	// Cancelled means the last session was abandoned.
	Cancelled
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is everything produced by committing a session.
type Result struct {
	Session         model.Session
	XP              progress.Breakdown
	LeveledUp       bool
	LevelsGained    int
	NewAchievements []model.Achievement
	Insights        []string
	Profile         model.Profile
	Ranks           map[string]int
}

// Update describes the engine after one input change.
type Update struct {
	Classes   []typing.Class
	Correct   int
	Incorrect int
	Live      model.LiveStats
	KeyError  rune
	HasError  bool
	Completed bool
	Result    *Result
}

// Deps are the collaborators an Engine needs.
type Deps struct {
	Clock        clock.Clock
	Log          *logging.Logger
	Profiles     *profile.Repository
	Leaderboards *leaderboard.Repository
	Heatmap      *heatmap.Repository
	Catalog      []achievement.Definition
	Blend        leaderboard.Blend
	PlayerName   string
}

// Engine is the single-writer owner of the profile during play. Methods are
// safe to call from multiple goroutines; events are delivered after the
// engine lock is released.
type Engine struct {
	mu   sync.Mutex
	deps Deps
	bus  bus

	state   State
	prompt  []rune
	input   []rune
	started time.Time
	profile model.Profile
	keys    *heatmap.Table
	last    *Result
}

// New loads the profile for today and the error table.
func New(ctx context.Context, deps Deps) *Engine {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Catalog == nil {
		deps.Catalog = achievement.Catalog
	}
	if deps.Blend == "" {
		deps.Blend = leaderboard.BlendMean
	}
	return &Engine{
		deps:    deps,
		state:   Idle,
		profile: deps.Profiles.LoadForDay(ctx),
		keys:    deps.Heatmap.Load(ctx),
	}
}

// Subscribe registers fn for every future event and returns a function that
// removes it.
func (e *Engine) Subscribe(fn func(Event)) func() {
	return e.bus.subscribe(fn)
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Profile returns a copy of the current profile.
func (e *Engine) Profile() model.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

// Prompt returns the active prompt.
func (e *Engine) Prompt() []rune {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]rune(nil), e.prompt...)
}

// Input returns the current input.
func (e *Engine) Input() []rune {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]rune(nil), e.input...)
}

// LastResult returns the most recent committed result, if any.
func (e *Engine) LastResult() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return Result{}, false
	}
	return *e.last, true
}

// Theme returns the persisted colour theme.
func (e *Engine) Theme(ctx context.Context) string {
	return e.deps.Profiles.Theme(ctx, e.Profile())
}

// KeyErrors returns a snapshot of the error table.
func (e *Engine) KeyErrors() model.KeyErrorTable {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(model.KeyErrorTable, len(e.keys.Counts()))
	for k, v := range e.keys.Counts() {
		out[k] = v
	}
	return out
}

// WeakKeys returns the top most-mistyped keys.
func (e *Engine) WeakKeys(top int) map[rune]struct{} {
	return stats.SelectWeakKeys(e.KeyErrors(), top)
}

// Leaderboards loads the current boards.
func (e *Engine) Leaderboards(ctx context.Context) model.Leaderboards {
	p := e.Profile()
	return e.deps.Leaderboards.Load(ctx, p, e.deps.PlayerName, e.deps.Clock.Now())
}

// BeginLoading marks a prompt fetch in flight and reloads the profile so
// day rollover is applied before play.
func (e *Engine) BeginLoading(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Active || e.state == Loading {
		return ErrSessionActive
	}
	e.profile = e.deps.Profiles.LoadForDay(ctx)
	e.state = Loading
	return nil
}

// StartSession begins timing a prompt.
func (e *Engine) StartSession(ctx context.Context, prompt string) error {
	runes := []rune(prompt)
	if len(runes) == 0 {
		return ErrEmptyPrompt
	}
	e.mu.Lock()
	if e.state == Active {
		e.mu.Unlock()
		return ErrSessionActive
	}
	if e.state != Loading {
		e.profile = e.deps.Profiles.LoadForDay(ctx)
	}
	e.prompt = runes
	e.input = nil
	e.started = e.deps.Clock.Now()
	e.state = Active
	e.mu.Unlock()

	e.bus.publish([]Event{{Kind: EventSessionStarted, Level: e.Profile().Level}})
	return nil
}

// CancelSession abandons the running or loading session without recording
// anything.
func (e *Engine) CancelSession() error {
	e.mu.Lock()
	if e.state != Active && e.state != Loading {
		e.mu.Unlock()
		return ErrNoActiveSession
	}
	e.state = Cancelled
	e.prompt = nil
	e.input = nil
	e.started = time.Time{}
	e.mu.Unlock()

	e.bus.publish([]Event{{Kind: EventSessionCancelled}})
	return nil
}

// LiveStats reports speed and accuracy so far. Outside an active session it
// reports the last result, or zero speed at 100% accuracy.
func (e *Engine) LiveStats() model.LiveStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.liveLocked()
}

func (e *Engine) liveLocked() model.LiveStats {
	if e.state != Active {
		if e.state == Completed && e.last != nil {
			return model.LiveStats{
				WPM:      e.last.Session.WPM,
				Accuracy: e.last.Session.Accuracy,
				Elapsed:  time.Duration(e.last.Session.Duration * float64(time.Second)),
			}
		}
		return model.LiveStats{Accuracy: 100}
	}
	elapsed := e.deps.Clock.Now().Sub(e.started)
	correct, incorrect := typing.Counts(e.prompt, e.input)
	m := stats.LiveMetrics(correct, incorrect, elapsed)
	return model.LiveStats{WPM: m.WPM, Accuracy: m.Accuracy, Elapsed: elapsed}
}

// HandleInput applies the full current input text. Only single-rune appends
// and deletions at the end are accepted. A newly typed wrong rune is
// recorded in the heatmap; typing the last rune completes the session.
func (e *Engine) HandleInput(ctx context.Context, text string) (Update, error) {
	next := []rune(text)

	e.mu.Lock()
	if e.state != Active {
		e.mu.Unlock()
		return Update{}, ErrNoActiveSession
	}
	if err := typing.ValidateEdit(e.prompt, e.input, next); err != nil {
		e.mu.Unlock()
		return Update{}, err
	}
	grew := len(next) > len(e.input)
	e.input = next

	var events []Event
	up := Update{Classes: typing.Classify(e.prompt, e.input)}
	up.Correct, up.Incorrect = typing.Counts(e.prompt, e.input)
	if grew {
		if r, ok := typing.LastError(e.prompt, e.input); ok {
			e.recordKeyLocked(ctx, r)
			up.KeyError, up.HasError = r, true
			events = append(events, Event{Kind: EventKeyError, Key: r})
		}
	}
	up.Live = e.liveLocked()

	if typing.Complete(e.prompt, e.input) {
		res, completeEvents, err := e.completeLocked(ctx)
		if err != nil {
			e.mu.Unlock()
			e.bus.publish(events)
			return up, err
		}
		up.Completed = true
		up.Result = &res
		up.Live = e.liveLocked()
		events = append(events, completeEvents...)
	}
	e.mu.Unlock()

	e.bus.publish(events)
	return up, nil
}

// CompleteSession commits the active session. The prompt must be fully typed.
func (e *Engine) CompleteSession(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if e.state != Active {
		e.mu.Unlock()
		return Result{}, ErrNoActiveSession
	}
	if !typing.Complete(e.prompt, e.input) {
		e.mu.Unlock()
		return Result{}, ErrIncomplete
	}
	res, events, err := e.completeLocked(ctx)
	e.mu.Unlock()

	e.bus.publish(events)
	return res, err
}

func (e *Engine) completeLocked(ctx context.Context) (Result, []Event, error) {
	now := e.deps.Clock.Now()
	elapsed := now.Sub(e.started)
	correct, incorrect := typing.Counts(e.prompt, e.input)
	m := stats.FinalMetrics(len(e.prompt), correct, elapsed)

	session := model.Session{
		ID:           uuid.NewString(),
		Date:         now,
		WPM:          m.WPM,
		Accuracy:     m.Accuracy,
		Errors:       incorrect,
		Duration:     elapsed.Seconds(),
		PromptLength: len(e.prompt),
		WordsTyped:   stats.WordsFor(len(e.prompt)),
	}
	res, events := e.commitLocked(ctx, session, now)
	e.state = Completed
	return res, events, nil
}

// commitLocked applies a finished session to the profile, achievements and
// leaderboards and persists them. Storage failures are logged.
func (e *Engine) commitLocked(ctx context.Context, session model.Session, now time.Time) (Result, []Event) {
	p := &e.profile
	before := p.Stats
	before.History = nil
	startLevel := p.Level
	boards := e.deps.Leaderboards.Load(ctx, *p, e.deps.PlayerName, now)

	progress.RecordSession(p, session)
	xp := progress.CalculateXP(session, p.Streak, p.Level)
	leveled := progress.AwardSession(p, session, xp.Total, clock.Day(now))
	unlocked := achievement.Check(e.deps.Catalog, p, session, now)

	if err := e.deps.Profiles.Save(ctx, *p); err != nil {
		e.deps.Log.Errorf("failed to save profile: %v", err)
	}

	leaderboard.Update(&boards, leaderboard.Result{
		WPM:      session.WPM,
		Accuracy: session.Accuracy,
		Level:    p.Level,
		Streak:   p.Streak,
	}, e.deps.Blend, e.deps.PlayerName, now)
	if err := e.deps.Leaderboards.Save(ctx, boards); err != nil {
		e.deps.Log.Errorf("failed to save leaderboards: %v", err)
	}
	ranks := map[string]int{}
	for _, name := range leaderboard.Names {
		board, _ := leaderboard.Select(&boards, name)
		if entry, ok := leaderboard.Find(*board, leaderboard.UserID); ok {
			ranks[name] = entry.Rank
		}
	}

	res := Result{
		Session:         session,
		XP:              xp,
		LeveledUp:       leveled,
		LevelsGained:    p.Level - startLevel,
		NewAchievements: unlocked,
		Profile:         *p,
		Ranks:           ranks,
	}
	res.Insights = progress.Insights(progress.InsightInput{
		Profile:         *p,
		Before:          before,
		Session:         session,
		NewAchievements: unlocked,
		LeveledUp:       leveled,
	})
	e.last = &res
	e.prompt = nil
	e.input = nil
	e.deps.Log.Infof("session %s committed: %d wpm, %d%% accuracy, %d xp", session.ID, session.WPM, session.Accuracy, xp.Total)

	var events []Event
	if leveled {
		events = append(events, Event{Kind: EventLevelUp, Level: p.Level, Result: &res})
	}
	for i := range unlocked {
		events = append(events, Event{Kind: EventAchievementUnlocked, Achievement: &unlocked[i], Result: &res})
	}
	events = append(events, Event{Kind: EventSessionCompleted, Result: &res})
	return res, events
}

// Submission is a session measured outside the engine.
type Submission struct {
	Prompt   string
	Typed    string
	Duration time.Duration
}

// SubmitResult commits a session typed elsewhere. The typed text must cover
// the prompt; every mistyped rune is added to the heatmap.
func (e *Engine) SubmitResult(ctx context.Context, sub Submission) (Result, error) {
	prompt := []rune(sub.Prompt)
	typed := []rune(sub.Typed)
	if len(prompt) == 0 {
		return Result{}, ErrEmptyPrompt
	}
	if len(typed) != len(prompt) {
		return Result{}, ErrIncomplete
	}

	e.mu.Lock()
	if e.state == Active || e.state == Loading {
		e.mu.Unlock()
		return Result{}, ErrSessionActive
	}
	e.profile = e.deps.Profiles.LoadForDay(ctx)
	var events []Event
	for i, c := range typing.Classify(prompt, typed) {
		if c == typing.Incorrect {
			e.recordKeyLocked(ctx, typed[i])
			events = append(events, Event{Kind: EventKeyError, Key: typed[i]})
		}
	}
	now := e.deps.Clock.Now()
	e.prompt = prompt
	e.input = typed
	e.started = now.Add(-sub.Duration)
	res, completeEvents, err := e.completeLocked(ctx)
	e.mu.Unlock()

	e.bus.publish(append(events, completeEvents...))
	return res, err
}

// CheckAchievements evaluates the catalog against p and s, appending any
// new unlocks to p.
func (e *Engine) CheckAchievements(p *model.Profile, s model.Session) []model.Achievement {
	return achievement.Check(e.deps.Catalog, p, s, e.deps.Clock.Now())
}

// RecordKeyError adds one error for r to the heatmap.
func (e *Engine) RecordKeyError(ctx context.Context, r rune) {
	e.mu.Lock()
	e.recordKeyLocked(ctx, r)
	e.mu.Unlock()
	e.bus.publish([]Event{{Kind: EventKeyError, Key: r}})
}

func (e *Engine) recordKeyLocked(ctx context.Context, r rune) {
	e.keys.Record(r)
	if err := e.deps.Heatmap.Save(ctx, e.keys); err != nil {
		e.deps.Log.Warnf("failed to save key errors: %v", err)
	}
}

// ResetKeyErrors clears the heatmap.
func (e *Engine) ResetKeyErrors(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keys.Reset()
	return e.deps.Heatmap.Save(ctx, e.keys)
}

// SetPreference changes one profile preference and persists it. It is
// refused while a session is running.
func (e *Engine) SetPreference(ctx context.Context, key, value string) (model.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Active {
		return e.profile, ErrSessionActive
	}
	p := e.profile
	if err := e.deps.Profiles.SetPreference(ctx, &p, key, value); err != nil {
		return e.profile, err
	}
	e.profile = p
	return p, nil
}

// ResetProfile discards all progress. It is refused while a session is
// running.
func (e *Engine) ResetProfile(ctx context.Context) (model.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Active {
		return e.profile, ErrSessionActive
	}
	p, err := e.deps.Profiles.Reset(ctx)
	if err != nil {
		return e.profile, fmt.Errorf("failed to reset profile: %w", err)
	}
	e.profile = p
	e.last = nil
	e.state = Idle
	return p, nil
}
