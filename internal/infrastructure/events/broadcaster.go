// Package events fans state-changed notifications out to in-process listeners.
package events

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bnema/omni/internal/domain/entity"
)

const (
	defaultThrottle   = 500 * time.Millisecond
	subscriberBacklog = 16
)

// Broadcaster implements port.EventPublisher. Each event type is throttled
// independently: the first event of a burst is delivered immediately, the
// rest collapse into one trailing delivery at the end of the window.
// Slow subscribers miss events rather than blocking publishers.
type Broadcaster struct {
	throttle time.Duration
	now      func() time.Time

	mu       sync.Mutex
	limiters map[entity.EventType]*rate.Limiter
	trailing map[entity.EventType]*time.Timer
	subs     map[int]chan entity.StateChangedEvent
	nextSub  int
	closed   bool
}

// NewBroadcaster creates a broadcaster. A non-positive throttle uses the default.
func NewBroadcaster(throttle time.Duration) *Broadcaster {
	if throttle <= 0 {
		throttle = defaultThrottle
	}
	return &Broadcaster{
		throttle: throttle,
		now:      time.Now,
		limiters: make(map[entity.EventType]*rate.Limiter),
		trailing: make(map[entity.EventType]*time.Timer),
		subs:     make(map[int]chan entity.StateChangedEvent),
	}
}

// Subscribe registers a listener. The returned func unsubscribes and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan entity.StateChangedEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan entity.StateChangedEvent, subscriberBacklog)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish never blocks and never fails.
func (b *Broadcaster) Publish(eventType entity.EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	lim, ok := b.limiters[eventType]
	if !ok {
		lim = rate.NewLimiter(rate.Every(b.throttle), 1)
		b.limiters[eventType] = lim
	}
	if lim.Allow() {
		b.deliverLocked(eventType)
		return
	}
	if _, pending := b.trailing[eventType]; pending {
		return
	}

	delay := lim.Reserve().Delay()
	b.trailing[eventType] = time.AfterFunc(delay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.trailing, eventType)
		if !b.closed {
			b.deliverLocked(eventType)
		}
	})
}

// Close stops pending deliveries and closes every subscriber channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for t, timer := range b.trailing {
		timer.Stop()
		delete(b.trailing, t)
	}
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Broadcaster) deliverLocked(eventType entity.EventType) {
	ev := entity.StateChangedEvent{Type: eventType, Timestamp: b.now()}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
