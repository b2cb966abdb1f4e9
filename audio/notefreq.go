package audio

import (
	"math"
	"sync/atomic"
)

// NoteFreq supplies the amplitude and frequency of one voice slot for every
// rendered frame.
type NoteFreq interface {
	// Trigger starts a note. A legato trigger changes the pitch of a note
	// that is already sounding.
	Trigger(hz float64, vel float32, legato bool)
	// Release ends the note. It reports false when the note has no release
	// tail and the voice should be cleared immediately.
	Release() bool
	// Next returns the amplitude and frequency for the next frame, or false
	// once the note has ended.
	Next() (amp float32, hz float64, ok bool)
}

// Generator creates the NoteFreq for one voice slot.
type Generator func() NoteFreq

// Constant returns a generator that plays notes at their trigger pitch with
// the trigger velocity as amplitude, until released.
func Constant() Generator {
	return func() NoteFreq { return &constantFreq{} }
}

type constantFreq struct {
	hz     float64
	vel    float32
	active bool
}

func (c *constantFreq) Trigger(hz float64, vel float32, legato bool) {
	c.hz, c.vel, c.active = hz, vel, true
}

func (c *constantFreq) Release() bool {
	c.active = false
	return false
}

func (c *constantFreq) Next() (float32, float64, bool) {
	return c.vel, c.hz, c.active
}

const (
	propEnvAttack  = "env.attack"
	propEnvDecay   = "env.decay"
	propEnvSustain = "env.sustain"
	propEnvRelease = "env.release"
	propGlide      = "glide"
	propDetune     = "detune"
)

// Envelope returns a generator that shapes amplitude with an ADSR envelope
// and glides between pitches on legato triggers. Its parameters are
// registered on props.
func Envelope(props *Props) Generator {
	var (
		attack  = props.MustRegister(propEnvAttack, setEnvParam, 0.002)
		decay   = props.MustRegister(propEnvDecay, setEnvParam, 0.1)
		sustain = props.MustRegister(propEnvSustain, setFloat64(0, 1), 1.0)
		release = props.MustRegister(propEnvRelease, setEnvParam, 0.05)
		glide   = props.MustRegister(propGlide, setFloat64(0, 10), 0.)
		detune  = props.MustRegister(propDetune, setFloat64(-1200, 1200), 0.)
	)
	return func() NoteFreq {
		return &envelopeFreq{
			envAttack:  attack,
			envDecay:   decay,
			envSustain: sustain,
			envRelease: release,
			glide:      glide,
			detune:     detune,
		}
	}
}

type envelopeFreq struct {
	envAttack  *atomic.Value
	envDecay   *atomic.Value
	envSustain *atomic.Value
	envRelease *atomic.Value
	glide      *atomic.Value
	detune     *atomic.Value

	env       envelope
	vel       float32
	hz        float64
	target    float64
	glideCoef float64
}

func (e *envelopeFreq) Trigger(hz float64, vel float32, legato bool) {
	cents := e.detune.Load().(float64)
	e.target = hz * math.Pow(2, cents/1200)
	e.vel = vel

	glide := e.glide.Load().(float64)
	if legato && glide > 0 && !e.env.idle() {
		// one-pole approach, within 1% of the target after glide seconds
		e.glideCoef = 1 - math.Pow(0.01, 1/(glide*SampleRate))
		return
	}
	e.hz = e.target
	e.glideCoef = 0
	if legato && !e.env.idle() {
		return
	}
	e.env.attack = e.envAttack.Load().(float64)
	e.env.decay = e.envDecay.Load().(float64)
	e.env.sustain = e.envSustain.Load().(float64)
	e.env.release = e.envRelease.Load().(float64)
	e.env.gateOn()
}

func (e *envelopeFreq) Release() bool {
	e.env.gateOff()
	return !e.env.idle()
}

func (e *envelopeFreq) Next() (float32, float64, bool) {
	amp := e.env.next()
	if e.env.idle() {
		return 0, 0, false
	}
	if e.glideCoef > 0 {
		e.hz += (e.target - e.hz) * e.glideCoef
	}
	return float32(amp) * e.vel, e.hz, true
}
