package audio

import "fmt"

// Mode decides which voice slots a note event assigns or clears.
type Mode interface {
	NoteOn(hz float64, vel float32, zones *ZoneMap, pool *VoicePool)
	NoteOff(hz float64, zones *ZoneMap, pool *VoicePool)
	// Reset forgets any held notes.
	Reset()
}

// Poly gives every note its own voice, stealing the longest sounding voice
// when the pool is full.
type Poly struct{}

func (Poly) NoteOn(hz float64, vel float32, zones *ZoneMap, pool *VoicePool) {
	s, ok := zones.Lookup(hz, vel)
	if !ok {
		return
	}
	i := pool.FirstFree()
	if i < 0 {
		i = pool.Oldest()
	}
	if i < 0 {
		return
	}
	pool.Start(i, NewVoice(0, hz, vel, s), false)
}

// NoteOff releases every voice triggered at hz. Voices without a release
// tail are cleared immediately.
func (Poly) NoteOff(hz float64, _ *ZoneMap, pool *VoicePool) {
	for i := 0; i < pool.Len(); i++ {
		if v, ok := pool.Voice(i); ok && v.NoteHz == hz {
			pool.Release(i)
		}
	}
}

func (Poly) Reset() {}

type MonoKind int

const (
	// Legato continues the sounding voice's playhead on a new note.
	Legato MonoKind = iota
	// Retrigger restarts the sample on every note.
	Retrigger
)

const maxHeldNotes = 128

// Mono plays one note at a time on every slot of the pool. Held notes are
// kept on a stack so that releasing the newest falls back to the previous one.
type Mono struct {
	Kind MonoKind

	held [maxHeldNotes]float64
	n    int
}

func (m *Mono) NoteOn(hz float64, vel float32, zones *ZoneMap, pool *VoicePool) {
	s, ok := zones.Lookup(hz, vel)
	if !ok {
		return
	}
	prev, hadPrev := m.top()
	m.push(hz)

	pos, legato := 0.0, false
	if m.Kind == Legato && hadPrev {
		if v, ok := m.sounding(prev, pool); ok {
			pos, legato = v.Position(), true
		}
	}
	v := NewVoiceAt(pos, hz, vel, s)
	for i := 0; i < pool.Len(); i++ {
		pool.Start(i, v, legato)
	}
}

func (m *Mono) NoteOff(hz float64, zones *ZoneMap, pool *VoicePool) {
	if !m.remove(hz) {
		return
	}
	if _, ok := m.sounding(hz, pool); !ok {
		return
	}
	fallback, ok := m.top()
	for i := 0; i < pool.Len(); i++ {
		v, active := pool.Voice(i)
		if !active {
			continue
		}
		if ok {
			pos := 0.0
			if m.Kind == Legato {
				pos = v.Position()
			}
			if s, found := zones.Lookup(fallback, v.NoteVel); found {
				pool.Start(i, NewVoiceAt(pos, fallback, v.NoteVel, s), m.Kind == Legato)
				continue
			}
		}
		pool.Release(i)
	}
}

func (m *Mono) Reset() { m.n = 0 }

// sounding returns the first active voice triggered at hz.
func (m *Mono) sounding(hz float64, pool *VoicePool) (*Voice, bool) {
	for i := 0; i < pool.Len(); i++ {
		if v, ok := pool.Voice(i); ok && v.NoteHz == hz {
			return v, true
		}
	}
	return nil, false
}

func (m *Mono) top() (float64, bool) {
	if m.n == 0 {
		return 0, false
	}
	return m.held[m.n-1], true
}

// push adds hz as the most recent held note, dropping the oldest when the
// stack is full.
func (m *Mono) push(hz float64) {
	if m.n == len(m.held) {
		copy(m.held[:], m.held[1:])
		m.n--
	}
	m.held[m.n] = hz
	m.n++
}

// remove deletes the most recent occurrence of hz.
func (m *Mono) remove(hz float64) bool {
	for i := m.n - 1; i >= 0; i-- {
		if m.held[i] == hz {
			copy(m.held[i:m.n], m.held[i+1:m.n])
			m.n--
			return true
		}
	}
	return false
}

// Held returns the number of notes on the stack.
func (m *Mono) Held() int { return m.n }

type ModeKind int

const (
	ModeLegato ModeKind = iota
	ModeRetrigger
	ModePoly
)

var modeNames = [...]string{
	ModeLegato:    "legato",
	ModeRetrigger: "retrigger",
	ModePoly:      "poly",
}

func (k ModeKind) String() string {
	if k < 0 || int(k) >= len(modeNames) {
		return fmt.Sprintf("ModeKind(%d)", int(k))
	}
	return modeNames[k]
}

func ParseModeKind(s string) (ModeKind, error) {
	for k, name := range modeNames {
		if s == name {
			return ModeKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown mode: %s", s)
}

// Dynamic is a Mode whose kind can be switched at runtime.
type Dynamic struct {
	kind ModeKind
	mono Mono
	poly Poly
}

func NewDynamic(kind ModeKind) *Dynamic {
	d := &Dynamic{}
	d.SetKind(kind)
	return d
}

func (d *Dynamic) Kind() ModeKind { return d.kind }

// SetKind switches the mode. Held notes are forgotten; sounding voices are
// left to finish.
func (d *Dynamic) SetKind(kind ModeKind) {
	d.kind = kind
	d.mono.Reset()
	if kind == ModeRetrigger {
		d.mono.Kind = Retrigger
	} else {
		d.mono.Kind = Legato
	}
}

func (d *Dynamic) NoteOn(hz float64, vel float32, zones *ZoneMap, pool *VoicePool) {
	switch d.kind {
	case ModePoly:
		d.poly.NoteOn(hz, vel, zones, pool)
	default:
		d.mono.NoteOn(hz, vel, zones, pool)
	}
}

func (d *Dynamic) NoteOff(hz float64, zones *ZoneMap, pool *VoicePool) {
	switch d.kind {
	case ModePoly:
		d.poly.NoteOff(hz, zones, pool)
	default:
		d.mono.NoteOff(hz, zones, pool)
	}
}

func (d *Dynamic) Reset() {
	d.mono.Reset()
	d.poly.Reset()
}
