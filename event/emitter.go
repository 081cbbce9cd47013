package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/kochabonline/boot/log"
)

// Listener handles a single event delivery. The payload is whatever the
// emitting side published, nil for signal-only events.
type Listener func(ctx context.Context, payload any) error

// subscriber pairs a listener with its registration identity. Identity is
// the listener's code pointer, so the same named function or method value
// registers once per event; closures sharing a function body are treated
// as the same listener.
type subscriber struct {
	id   uintptr
	fn   Listener
	once bool
}

// Emitter is an in-memory asynchronous publish/subscribe hub. Listeners for
// one event are kept ordered and duplicate free; Emit dispatches a snapshot
// of them concurrently and waits for all of them to settle.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[string][]subscriber
}

func NewEmitter() *Emitter {
	return &Emitter{
		listeners: make(map[string][]subscriber),
	}
}

func listenerID(fn Listener) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// On subscribes fn to event. Re-registering an already subscribed listener
// is a no-op, keeping the set duplicate free and preserving order.
func (e *Emitter) On(event string, fn Listener) {
	e.subscribe(event, fn, false)
}

// Once subscribes fn to event for a single delivery. The listener is removed
// from the live set before it is invoked, so a re-entrant Emit from inside
// the listener cannot trigger it again.
func (e *Emitter) Once(event string, fn Listener) {
	e.subscribe(event, fn, true)
}

func (e *Emitter) subscribe(event string, fn Listener, once bool) {
	if fn == nil {
		log.Warn().Str("event", event).Msg("nil listener ignored")
		return
	}

	id := listenerID(fn)

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, sub := range e.listeners[event] {
		if sub.id == id {
			return
		}
	}

	e.listeners[event] = append(e.listeners[event], subscriber{id: id, fn: fn, once: once})
}

// Off removes fn from event's listener set. When the set becomes empty the
// event entry is deleted entirely, so ListenerCount reports 0 and future
// emits short-circuit.
func (e *Emitter) Off(event string, fn Listener) {
	if fn == nil {
		return
	}

	id := listenerID(fn)

	e.mu.Lock()
	defer e.mu.Unlock()

	subs, ok := e.listeners[event]
	if !ok {
		return
	}

	for i, sub := range subs {
		if sub.id == id {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}

	if len(subs) == 0 {
		delete(e.listeners, event)
	} else {
		e.listeners[event] = subs
	}
}

// RemoveAllListeners clears the given events' listeners, or every event's
// listeners when called without arguments.
func (e *Emitter) RemoveAllListeners(events ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(events) == 0 {
		e.listeners = make(map[string][]subscriber)
		return
	}

	for _, event := range events {
		delete(e.listeners, event)
	}
}

// ListenerCount returns the current number of listeners for event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.listeners[event])
}

// Reset clears all subscriber state. Intended for test isolation.
func (e *Emitter) Reset() {
	e.RemoveAllListeners()
}

// Emit delivers payload to every listener currently subscribed to event and
// waits for all of them to settle. Listeners run concurrently; a failing or
// panicking listener never prevents its siblings from running. When one or
// more listeners fail, the first failure in registration order is returned.
func (e *Emitter) Emit(ctx context.Context, event string, payload any) error {
	e.mu.Lock()
	snapshot := e.listeners[event]
	if len(snapshot) == 0 {
		e.mu.Unlock()
		return nil
	}

	// Drop once-subscribers from the live set before anything runs.
	live := e.listeners[event][:0:0]
	for _, sub := range snapshot {
		if !sub.once {
			live = append(live, sub)
		}
	}
	if len(live) == 0 {
		delete(e.listeners, event)
	} else {
		e.listeners[event] = live
	}
	e.mu.Unlock()

	errs := make([]error, len(snapshot))

	var wg sync.WaitGroup
	for i, sub := range snapshot {
		wg.Add(1)
		go func(i int, sub subscriber) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Any("panic", r).
						Str("event", event).
						Msg("event listener panic")
					errs[i] = fmt.Errorf("listener panic: %v", r)
				}
			}()

			errs[i] = sub.fn(ctx, payload)
		}(i, sub)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
