package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Pulses per quarter note
const PPQN = 960.

const PropClips = "clips"

// Clip is a looping sequence of notes played on one Playable.
type Clip struct {
	Length     int
	instrument Playable
	notes      []note
}

func NewClip(length float64, p Playable) *Clip {
	return &Clip{
		Length:     int(length * PPQN),
		instrument: p,
	}
}

// Playable receives notes from the sequencer on the audio thread. Offsets
// and durations are in frames.
type Playable interface {
	PlayNote(offset, pitch int, velocity float32, duration int)
}

// AddNote adds a note at position beats from the start of the clip. Pitches
// outside the midi range are ignored.
func (c *Clip) AddNote(position float64, pitch int, velocity float32, length float64) {
	if pitch < 0 || pitch > 127 {
		return
	}
	c.notes = append(c.notes, note{
		pos:      int(position * PPQN),
		pitch:    pitch,
		velocity: velocity,
		length:   length,
	})
}

type note struct {
	pos      int // position of the note measured in PPQN from the start of a clip
	pitch    int // pitch as a midi note number
	velocity float32
	length   float64 // note length in beats
}

type Sequencer struct {
	*Props
	bpm         *atomic.Value
	clips       *atomic.Value
	sampleRate  float64
	totalPulses uint64
}

func NewSequencer(props *Props) *Sequencer {
	clips := make(map[string]*Clip)
	return &Sequencer{
		Props:      props,
		sampleRate: SampleRate,
		clips:      props.MustRegister(PropClips, setClips, clips),
		bpm:        props.MustRegister("bpm", setFloat64(1, 500), 120.0),
	}
}

// Tick schedules the notes falling inside the next numSamples frames.
func (s *Sequencer) Tick(numSamples int) {
	bpm := s.bpm.Load().(float64)
	clips := s.clips.Load().(map[string]*Clip)

	// The number of pulses to schedule for each buffer will be fractional,
	// because the PPQN is not a multiple of the buffer size. Truncating it
	// causes the next pulse to be a few samples early, but it's not noticeable.
	numPulses := int(math.Floor(PPQN * (bpm / 60.) / (s.sampleRate / float64(numSamples))))
	samplesPerPulse := s.sampleRate / ((bpm * PPQN) / 60.)

	for _, clip := range clips {
		if clip.Length <= 0 {
			continue
		}
		pos := int(s.totalPulses % uint64(clip.Length)) // current position within the clip
		nextPos := pos + numPulses                      // next position within the clip

		for _, note := range clip.notes {
			duration := int(note.length * s.sampleRate / (bpm / 60.))

			// Past the clip end the window continues at the clip start, so a
			// note can fall inside it once before and once after the wrap.
			p := note.pos
			if p < pos {
				p += clip.Length
			}
			for ; p < nextPos; p += clip.Length {
				offset := float64(p - pos)
				clip.instrument.PlayNote(int(math.Round(offset*samplesPerPulse)), note.pitch, note.velocity, duration)
			}
		}
	}
	s.totalPulses += uint64(numPulses)
}

func setClips(v any, dest *atomic.Value) error {
	if c, ok := v.(map[string]*Clip); ok {
		dest.Store(c)
		return nil
	}
	return fmt.Errorf("value is not a map of clips: %v", v)
}
