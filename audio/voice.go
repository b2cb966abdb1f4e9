package audio

import "math"

// Voice plays one sample for one triggered note.
type Voice struct {
	NoteHz  float64
	NoteVel float32
	BaseHz  float64
	BaseVel float32

	conv RateConverter
}

// NewVoice starts playing s from frame idx for a note triggered at hz and vel.
func NewVoice(idx int, hz float64, vel float32, s Sample) Voice {
	return NewVoiceAt(float64(idx), hz, vel, s)
}

// NewVoiceAt starts playing s from a fractional frame position.
func NewVoiceAt(pos float64, hz float64, vel float32, s Sample) Voice {
	idx := math.Floor(pos)
	return Voice{
		NoteHz:  hz,
		NoteVel: vel,
		BaseHz:  s.BaseHz,
		BaseVel: s.BaseVel,
		conv:    NewRateConverterAt(NewPlayhead(s.Audio, int(idx)), 1, pos-idx),
	}
}

// Index is the frame the voice plays next.
func (v *Voice) Index() int { return v.conv.Index() }

// Position is the fractional position of the next frame. A voice started at
// Position continues without repeating or skipping frames.
func (v *Voice) Position() float64 { return v.conv.Position() }

// next renders one frame at the given frequency. It reports false once the
// sample is exhausted.
func (v *Voice) next(hz float64) (Frame, bool) {
	if v.BaseHz > 0 && hz > 0 {
		v.conv.SetRatio(hz / v.BaseHz)
	}
	return v.conv.Next()
}

type slot struct {
	voice  Voice
	active bool
	freq   NoteFreq
	seq    uint64 // trigger order, used to find the longest sounding voice
}

// VoicePool is a fixed number of voice slots. It is resized only through
// Resize, which clears every slot.
type VoicePool struct {
	slots []slot
	gen   Generator
	seq   uint64
}

// NewVoicePool returns a pool of n empty slots, each with its own NoteFreq.
func NewVoicePool(n int, gen Generator) *VoicePool {
	p := &VoicePool{gen: gen}
	p.Resize(n)
	return p
}

// Resize replaces the slots with n empty ones. It allocates and must not be
// called while rendering.
func (p *VoicePool) Resize(n int) {
	if n < 0 {
		n = 0
	}
	p.slots = make([]slot, n)
	for i := range p.slots {
		p.slots[i].freq = p.gen()
	}
}

func (p *VoicePool) Len() int { return len(p.slots) }

// Voice returns the voice in slot i, or false when the slot is empty.
func (p *VoicePool) Voice(i int) (*Voice, bool) {
	s := &p.slots[i]
	if !s.active {
		return nil, false
	}
	return &s.voice, true
}

// Start assigns v to slot i and triggers the slot's NoteFreq. A legato start
// keeps the slot's trigger order and lets the NoteFreq glide instead of
// restarting its envelope.
func (p *VoicePool) Start(i int, v Voice, legato bool) {
	s := &p.slots[i]
	legato = legato && s.active
	s.voice = v
	s.active = true
	if !legato {
		p.seq++
		s.seq = p.seq
	}
	s.freq.Trigger(v.NoteHz, v.NoteVel, legato)
}

// Release ends the note in slot i. The slot is cleared at once when its
// NoteFreq has no release tail, otherwise it clears itself when the NoteFreq
// finishes.
func (p *VoicePool) Release(i int) {
	s := &p.slots[i]
	if !s.active {
		return
	}
	if !s.freq.Release() {
		p.Clear(i)
	}
}

func (p *VoicePool) Clear(i int) {
	s := &p.slots[i]
	s.active = false
	s.voice = Voice{}
}

func (p *VoicePool) ClearAll() {
	for i := range p.slots {
		p.Clear(i)
	}
}

// Oldest returns the slot whose voice has been sounding the longest, the
// lowest index winning ties. It returns -1 if every slot is empty.
func (p *VoicePool) Oldest() int {
	oldest := -1
	for i := range p.slots {
		s := &p.slots[i]
		if !s.active {
			continue
		}
		if oldest == -1 || s.seq < p.slots[oldest].seq {
			oldest = i
		}
	}
	return oldest
}

// FirstFree returns the lowest empty slot or -1.
func (p *VoicePool) FirstFree() int {
	for i := range p.slots {
		if !p.slots[i].active {
			return i
		}
	}
	return -1
}

func (p *VoicePool) Active() int {
	var n int
	for i := range p.slots {
		if p.slots[i].active {
			n++
		}
	}
	return n
}

// render mixes one frame from every active slot, clearing slots whose
// NoteFreq or sample has ended.
func (p *VoicePool) render() Frame {
	out := Equilibrium
	for i := range p.slots {
		s := &p.slots[i]
		if !s.active {
			continue
		}
		amp, hz, ok := s.freq.Next()
		if !ok {
			p.Clear(i)
			continue
		}
		frame, ok := s.voice.next(hz)
		if !ok {
			p.Clear(i)
			continue
		}
		out = out.Add(frame.Scale(float64(amp) * float64(s.voice.BaseVel)))
	}
	return out
}
