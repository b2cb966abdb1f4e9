package audio

import (
	"runtime"
	"sync/atomic"
)

type eventKind int

const (
	eventNoteOn eventKind = iota
	eventNoteOff
	eventStop
)

type event struct {
	kind     eventKind
	hz       float64
	velocity float32
	offset   int // frame offset within the next processed buffer
	duration int // frames until an automatic note off, 0 for none
}

// eventBuffer is a lock-free spsc queue. Exactly one goroutine may push and
// the audio thread drains it with iter.
type eventBuffer struct {
	events      []event
	read, write atomic.Uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{events: make([]event, size)}
}

func (b *eventBuffer) full() bool {
	return b.write.Load()-b.read.Load() == uint32(len(b.events))
}

// push waits for room and appends ev. It must not be called from the
// goroutine that drains the buffer.
func (b *eventBuffer) push(ev event) {
	for b.full() {
		runtime.Gosched()
	}
	b.store(ev)
}

// tryPush appends ev if there is room and reports whether it did.
func (b *eventBuffer) tryPush(ev event) bool {
	if b.full() {
		return false
	}
	b.store(ev)
	return true
}

func (b *eventBuffer) store(ev event) {
	write := b.write.Load()
	b.events[write%uint32(len(b.events))] = ev
	b.write.Store(write + 1)
}

// iter calls f for queued events with an offset before untilOffset, stopping
// at the first later event. An untilOffset of -1 drains everything.
func (b *eventBuffer) iter(untilOffset int, f func(event)) {
	read := b.read.Load()
	write := b.write.Load()
	for read != write {
		ev := b.events[read%uint32(len(b.events))]
		if ev.offset >= untilOffset && untilOffset != -1 {
			break
		}
		f(ev)
		read++
	}
	b.read.Store(read)
}
