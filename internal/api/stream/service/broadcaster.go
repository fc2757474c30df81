package streamService

import "sync"

// broadcaster fans values out to subscribers over 1-slot channels. A slow
// subscriber loses its pending value in favour of the newest one. New
// subscribers start with the last published value.
type broadcaster[T any] struct {
	mu      sync.Mutex
	subs    map[chan T]struct{}
	last    T
	hasLast bool
	closed  bool
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{subs: make(map[chan T]struct{})}
}

// subscribe returns nil once the broadcaster is closed.
func (b *broadcaster[T]) subscribe() chan T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	ch := make(chan T, 1)
	if b.hasLast {
		ch <- b.last
	}
	b.subs[ch] = struct{}{}
	return ch
}

func (b *broadcaster[T]) unsubscribe(ch chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.last = v
	b.hasLast = true

	for ch := range b.subs {
		offer(ch, v)
	}
}

// offer replaces whatever is pending in ch with v. Callers hold b.mu, so no
// other sender races for the slot.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- v:
	default:
	}
}

func (b *broadcaster[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[chan T]struct{})
}

func (b *broadcaster[T]) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}
