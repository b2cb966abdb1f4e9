package audio

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
)

const (
	blockSize  = 16 // this gives about 0.35ms accuracy for sequenced events
	SampleRate = 44100
	bufferSize = 512 // default, see SetBufferSize
)

const (
	DefaultVoices = 12
	maxVoices     = 64
	maxPending    = 64
	maxScheduled  = 256
)

const (
	PropLevel  = "level"
	PropMode   = "mode"
	PropVoices = "voices"
	PropZones  = "zones"
)

type pendingOff struct {
	hz     float64
	frames int
	active bool
}

// Sampler renders note events into audio using a ZoneMap, a Mode and a pool
// of voices.
//
// NoteOn, NoteOff, Stop, SetVoiceCount, SetMode, RenderFrame and Process
// must all be called from the audio thread. Other goroutines deliver notes
// with the Queue methods and change settings through Props; both are picked
// up at the start of the next Process call.
type Sampler struct {
	*Props
	level  *atomic.Value
	mode   *atomic.Value
	voices *atomic.Value
	zones  *atomic.Value

	dispatch *Dynamic
	pool     *VoicePool
	zoneMap  *ZoneMap

	events    *eventBuffer // pushed by a control goroutine
	scheduled *eventBuffer // pushed by the sequencer on the audio thread
	pending   [maxPending]pendingOff
	due       [maxScheduled]event // scheduled notes of the current buffer
	numDue    int
	buf       [Channels][]float64
	applyFn   func(event)
	dueFn     func(event)
}

// NewSampler returns a poly Sampler with DefaultVoices voices. A nil gen uses
// Constant.
func NewSampler(props *Props, zones *ZoneMap, gen Generator) *Sampler {
	if zones == nil {
		zones = NewZoneMap()
	}
	if gen == nil {
		gen = Constant()
	}
	s := &Sampler{
		Props:     props,
		level:     props.MustRegister(PropLevel, setLevel, 0.),
		mode:      props.MustRegister(PropMode, setMode, ModePoly),
		voices:    props.MustRegister(PropVoices, setVoices, DefaultVoices),
		zones:     props.MustRegister(PropZones, setZoneMap, zones),
		dispatch:  NewDynamic(ModePoly),
		pool:      NewVoicePool(DefaultVoices, gen),
		zoneMap:   zones,
		events:    newEventBuffer(256),
		scheduled: newEventBuffer(maxScheduled),
	}
	s.SetBufferSize(bufferSize)
	s.applyFn = s.apply
	s.dueFn = s.addDue
	return s
}

// NoteOn starts a note. Notes outside every zone are ignored.
func (s *Sampler) NoteOn(hz float64, vel float32) {
	s.dispatch.NoteOn(hz, vel, s.zoneMap, s.pool)
}

// NoteOff ends the note triggered at hz. It does nothing if no such note is
// sounding.
func (s *Sampler) NoteOff(hz float64) {
	s.dispatch.NoteOff(hz, s.zoneMap, s.pool)
}

// Stop silences every voice and forgets held and scheduled notes.
func (s *Sampler) Stop() {
	s.pool.ClearAll()
	s.dispatch.Reset()
	for i := range s.pending {
		s.pending[i] = pendingOff{}
	}
	s.numDue = 0
}

// SetVoiceCount resizes the voice pool, clearing every voice. It allocates.
func (s *Sampler) SetVoiceCount(n int) error {
	if err := s.Set(PropVoices, n); err != nil {
		return err
	}
	s.pool.Resize(n)
	s.dispatch.Reset()
	return nil
}

func (s *Sampler) VoiceCount() int { return s.pool.Len() }

func (s *Sampler) SetMode(kind ModeKind) {
	s.mode.Store(kind)
	s.dispatch.SetKind(kind)
}

func (s *Sampler) Mode() ModeKind { return s.dispatch.Kind() }

// SetZones replaces the zone map. Sounding voices keep playing their samples.
func (s *Sampler) SetZones(m *ZoneMap) {
	if m == nil {
		m = NewZoneMap()
	}
	s.zones.Store(m)
	s.zoneMap = m
}

// Zones returns the latest zone map, including one set through Props but not
// yet picked up by Process.
func (s *Sampler) Zones() *ZoneMap {
	return s.zones.Load().(*ZoneMap)
}

// IsActive reports whether any voice is sounding.
func (s *Sampler) IsActive() bool {
	return s.pool.Active() > 0
}

// RenderFrame mixes the next frame of every active voice.
func (s *Sampler) RenderFrame() Frame {
	return s.pool.render()
}

// FillFrames renders len(out) consecutive frames.
func (s *Sampler) FillFrames(out []Frame) {
	for i := range out {
		out[i] = s.pool.render()
	}
}

// SetBufferSize sets the largest host buffer Process renders in one pass,
// rounded up to whole blocks. Larger buffers are rendered in several passes.
// It allocates and must be called before the sampler is added to a sink.
func (s *Sampler) SetBufferSize(frames int) {
	frames = max(blockSize, (frames+blockSize-1)/blockSize*blockSize)
	for c := range s.buf {
		s.buf[c] = make([]float64, frames)
	}
}

// Bounce renders a single note offline with the sampler's zones, mode,
// voices and note generator. The note is released after hold frames and
// rendering stops once it has finished or after limit frames. The output
// level is not applied. Bounce does not touch the audio thread's state and
// may be called from any goroutine.
func (s *Sampler) Bounce(hz float64, vel float32, hold, limit int) (*Buffer, error) {
	props := NewProps()
	off := NewSampler(props, s.Zones(), s.pool.gen)
	if err := props.Set(PropMode, s.mode.Load()); err != nil {
		return nil, err
	}
	if err := props.Set(PropVoices, s.voices.Load()); err != nil {
		return nil, err
	}
	off.sync()

	off.NoteOn(hz, vel)
	if !off.IsActive() {
		return nil, fmt.Errorf("no zone for %.2fhz", hz)
	}
	frames := make([]Frame, 0, limit)
	var block [blockSize]Frame
	released := false
	for len(frames) < limit && off.IsActive() {
		if !released && len(frames) >= hold {
			off.NoteOff(hz)
			released = true
		}
		n := min(blockSize, limit-len(frames))
		off.FillFrames(block[:n])
		frames = append(frames, block[:n]...)
	}
	return &Buffer{Frames: frames, SampleRate: SampleRate}, nil
}

// QueueNoteOn delivers a note on to the audio thread.
func (s *Sampler) QueueNoteOn(hz float64, vel float32) {
	s.events.push(event{kind: eventNoteOn, hz: hz, velocity: vel})
}

func (s *Sampler) QueueNoteOff(hz float64) {
	s.events.push(event{kind: eventNoteOff, hz: hz})
}

func (s *Sampler) QueueStop() {
	s.events.push(event{kind: eventStop})
}

// PlayNote schedules a midi note at offset frames into the next buffer,
// released after duration frames. It is called by the Sequencer on the
// audio thread; notes are dropped when the schedule is full.
func (s *Sampler) PlayNote(offset, pitch int, velocity float32, duration int) {
	s.scheduled.tryPush(event{
		kind:     eventNoteOn,
		hz:       midiToFreq(pitch),
		velocity: velocity,
		offset:   offset,
		duration: duration,
	})
}

func (s *Sampler) apply(ev event) {
	switch ev.kind {
	case eventNoteOn:
		s.NoteOn(ev.hz, ev.velocity)
		if ev.duration > 0 {
			s.schedule(ev.hz, ev.duration)
		}
	case eventNoteOff:
		s.NoteOff(ev.hz)
	case eventStop:
		s.Stop()
	}
}

// schedule adds a note off after the given number of frames. When the table
// is full the note off due soonest is sent early to make room.
func (s *Sampler) schedule(hz float64, frames int) {
	next := -1
	for i := range s.pending {
		p := &s.pending[i]
		if !p.active {
			next = i
			break
		}
		if next == -1 || p.frames < s.pending[next].frames {
			next = i
		}
	}
	if p := &s.pending[next]; p.active {
		s.NoteOff(p.hz)
	}
	s.pending[next] = pendingOff{hz: hz, frames: frames, active: true}
}

func (s *Sampler) addDue(ev event) {
	if s.numDue < len(s.due) {
		s.due[s.numDue] = ev
		s.numDue++
	}
}

// applyDue applies the scheduled notes with an offset before end, in any
// push order, and keeps the rest. An end of -1 applies everything.
func (s *Sampler) applyDue(end int) {
	n := 0
	for i := 0; i < s.numDue; i++ {
		ev := s.due[i]
		if end != -1 && ev.offset >= end {
			s.due[n] = ev
			n++
			continue
		}
		s.apply(ev)
	}
	s.numDue = n
}

func (s *Sampler) advancePending(frames int) {
	for i := range s.pending {
		p := &s.pending[i]
		if !p.active {
			continue
		}
		p.frames -= frames
		if p.frames <= 0 {
			p.active = false
			s.NoteOff(p.hz)
		}
	}
}

// sync applies settings changed through Props since the last buffer.
func (s *Sampler) sync() {
	if m := s.zones.Load().(*ZoneMap); m != s.zoneMap {
		s.zoneMap = m
	}
	if kind := s.mode.Load().(ModeKind); kind != s.dispatch.Kind() {
		s.dispatch.SetKind(kind)
	}
	if n := s.voices.Load().(int); n != s.pool.Len() {
		s.pool.Resize(n)
		s.dispatch.Reset()
	}
}

// Process renders len(samples[0]) frames and adds them to samples, one slice
// per output channel. Queued events are applied at block boundaries.
func (s *Sampler) Process(samples [][]float32) {
	if len(samples) == 0 {
		return
	}
	s.sync()
	s.scheduled.iter(-1, s.dueFn)
	n := len(samples[0])
	for from := 0; from < n; from += len(s.buf[0]) {
		s.render(samples, from, min(from+len(s.buf[0]), n))
	}
	// Offsets past the end of this buffer start at the top of the next one.
	s.applyDue(-1)
}

// render adds frames from..to of the host buffer. It covers at most
// len(s.buf[0]) frames.
func (s *Sampler) render(samples [][]float32, from, to int) {
	for off := from; off < to; off += blockSize {
		end := min(off+blockSize, to)
		s.events.iter(-1, s.applyFn)
		s.applyDue(end)
		for i := off; i < end; i++ {
			f := s.pool.render()
			for c := range s.buf {
				s.buf[c][i-from] = f[c]
			}
		}
		s.advancePending(end - off)
	}

	n := to - from
	gain := math.Pow(10, s.level.Load().(float64)/20.0)
	for c := range s.buf {
		vecmath.ScaleBlockInPlace(s.buf[c][:n], gain)
	}
	for c, out := range samples {
		src := s.buf[min(c, Channels-1)]
		for i := range out[from:to] {
			out[from+i] = clamp(float64(out[from+i]) + src[i])
		}
	}
}
