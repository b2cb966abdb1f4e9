package audio

import (
	"reflect"
	"runtime"
	"testing"
)

func TestEventBufferOffset(t *testing.T) {
	buf := newEventBuffer(8)
	buf.push(event{offset: 2})
	buf.push(event{offset: 3})

	var events []event
	buf.iter(2, func(ev event) {
		events = append(events, ev)
	})
	if want, got := 0, len(events); want != got {
		t.Errorf("expected zero events, got %v", got)
	}

	buf.iter(4, func(ev event) {
		events = append(events, ev)
	})
	if want, got := 2, len(events); want != got {
		t.Errorf("expected %v events, got %v", want, got)
	}
}

func TestEventBufferTryPush(t *testing.T) {
	buf := newEventBuffer(2)
	for n := 0; n < 2; n++ {
		if !buf.tryPush(event{kind: eventNoteOn, hz: 440}) {
			t.Fatalf("push %d: buffer reported full", n)
		}
	}
	if buf.tryPush(event{kind: eventNoteOff, hz: 440}) {
		t.Errorf("expected push into a full buffer to fail")
	}

	var kinds []eventKind
	buf.iter(-1, func(ev event) { kinds = append(kinds, ev.kind) })
	if want, got := []eventKind{eventNoteOn, eventNoteOn}, kinds; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events: want %v, got %v", want, got)
	}
	if !buf.tryPush(event{kind: eventStop}) {
		t.Errorf("expected room after draining")
	}
}

func noteEvents(n int) []event {
	events := make([]event, n)
	for i := range events {
		ev := event{kind: eventNoteOn, hz: float64(20 + i), velocity: float32(i%128) / 127, offset: i}
		switch i % 3 {
		case 1:
			ev.kind = eventNoteOff
		case 2:
			ev.duration = i
		}
		events[i] = ev
	}
	return events
}

func TestEventBuffer(t *testing.T) {
	buf := newEventBuffer(8)
	want := noteEvents(10_000)

	done := make(chan []event)
	go func() {
		var got []event
		for len(got) < len(want) {
			buf.iter(-1, func(ev event) {
				got = append(got, ev)
			})
			runtime.Gosched()
		}
		done <- got
	}()

	for _, ev := range want {
		buf.push(ev)
	}

	if got := <-done; !reflect.DeepEqual(want, got) {
		t.Errorf("events were reordered or changed: got %d events", len(got))
	}
}

func TestEventBufferTryPushUntilOffset(t *testing.T) {
	buf := newEventBuffer(4)
	want := noteEvents(2000)

	done := make(chan []event)
	go func() {
		var got []event
		for until := 0; len(got) < len(want); until += 3 {
			buf.iter(until, func(ev event) {
				if ev.offset >= until {
					t.Errorf("event at offset %d drained before %d", ev.offset, until)
				}
				got = append(got, ev)
			})
			runtime.Gosched()
		}
		done <- got
	}()

	for _, ev := range want {
		for !buf.tryPush(ev) {
			runtime.Gosched()
		}
	}

	if got := <-done; !reflect.DeepEqual(want, got) {
		t.Errorf("events were reordered or changed: got %d events", len(got))
	}
}
