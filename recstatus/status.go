// Package recstatus broadcasts a Recorder's lifecycle transitions
// (start, flush, stop, recover) to connected viewers over a websocket,
// mirroring the teacher's live log feed (pkg/web LogFeed): one
// upgrader per Handler, one subscriber channel per connection, a loop
// that forwards each event until a write to the client fails.
//
// This sits one layer above the synchronous recorder API — recorder
// never imports this package. A caller that wants status broadcast
// wires a *Broadcaster into recorder.Recorder via its Notifier
// interface, which Broadcaster implements structurally.
package recstatus

import (
	"sync"
	"time"
)

// Event describes one lifecycle transition.
type Event struct {
	Type       string `json:"type"` // "start", "flush", "stop", "recover"
	Path       string `json:"path"`
	FrameCount uint64 `json:"frameCount"`
	Time       int64  `json:"time"` // unix milliseconds
}

// Broadcaster fans out lifecycle events to any number of subscribers.
// The zero value is not usable; construct with NewBroadcaster.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
	now  func() time.Time
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan Event]struct{}),
		now:  time.Now,
	}
}

// Notify implements recorder.Notifier: it is the hook recorder.Recorder
// calls on every lifecycle transition once wired via SetNotifier.
func (b *Broadcaster) Notify(eventType, path string, frameCount uint64) {
	b.publish(Event{
		Type:       eventType,
		Path:       path,
		FrameCount: frameCount,
		Time:       b.now().UnixMilli(),
	})
}

func (b *Broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub <- ev:
		default:
			// Slow subscriber: drop rather than block the recorder's
			// write path on a websocket client that isn't draining.
		}
	}
}

// Subscribe registers a new subscriber channel. The caller must call
// the returned cancel func when done to avoid leaking the channel.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}
