package session

import (
	"sync"

	"github.com/Shamsear/typevelocity/internal/model"
)

// EventKind names a notification emitted by the engine.
type EventKind string

// Event kinds.
const (
	EventSessionStarted      EventKind = "session_started"
	EventSessionCompleted    EventKind = "session_completed"
	EventSessionCancelled    EventKind = "session_cancelled"
	EventLevelUp             EventKind = "level_up"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
	EventKeyError            EventKind = "key_error"
)

// Event is delivered to subscribers after the engine state has settled.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind
	Result      *Result
	Achievement *model.Achievement
	Level       int
	Key         rune
}

type bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func (b *bus) subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = map[int]func(Event){}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *bus) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for i := 0; i < b.nextID; i++ {
		if fn, ok := b.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()
	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}
