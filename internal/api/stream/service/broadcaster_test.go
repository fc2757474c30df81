package streamService

import "testing"

func TestBroadcasterKeepsNewest(t *testing.T) {
	b := newBroadcaster[int]()
	ch := b.subscribe()

	for i := 1; i <= 5; i++ {
		b.publish(i)
	}

	if got := <-ch; got != 5 {
		t.Errorf("slow subscriber got %d, want newest 5", got)
	}
	select {
	case v := <-ch:
		t.Errorf("unexpected extra value %d", v)
	default:
	}
}

func TestBroadcasterPrimesNewSubscriber(t *testing.T) {
	b := newBroadcaster[string]()
	b.publish("first")
	b.publish("second")

	ch := b.subscribe()
	if got := <-ch; got != "second" {
		t.Errorf("new subscriber got %q, want second", got)
	}
}

func TestBroadcasterFanOut(t *testing.T) {
	b := newBroadcaster[int]()
	a, c := b.subscribe(), b.subscribe()

	b.publish(7)

	if <-a != 7 || <-c != 7 {
		t.Error("every subscriber should receive the value")
	}
	if b.count() != 2 {
		t.Errorf("count() = %d, want 2", b.count())
	}
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := newBroadcaster[int]()
	ch := b.subscribe()
	b.unsubscribe(ch)
	b.unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	if b.count() != 0 {
		t.Errorf("count() = %d, want 0", b.count())
	}

	b.publish(1)
}

func TestBroadcasterClose(t *testing.T) {
	b := newBroadcaster[int]()
	ch := b.subscribe()

	b.close()
	b.close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after close")
	}
	if b.subscribe() != nil {
		t.Error("subscribe after close should return nil")
	}

	b.publish(1)
	b.unsubscribe(ch)
}
