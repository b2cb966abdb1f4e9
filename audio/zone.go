package audio

import "math"

const (
	MinVelocity float32 = 0
	MaxVelocity float32 = 1

	// MaxHz is the exclusive upper frequency bound of a zone spanning every pitch.
	MaxHz = math.MaxFloat64
)

// HzRange is the half-open frequency range [Min, Max).
type HzRange struct {
	Min, Max float64
}

func (r HzRange) Contains(hz float64) bool {
	return r.Min <= hz && hz < r.Max
}

// VelRange is the closed velocity range [Min, Max].
type VelRange struct {
	Min, Max float32
}

func (r VelRange) Contains(vel float32) bool {
	return r.Min <= vel && vel <= r.Max
}

// ZoneRange is a rectangle in frequency × velocity space.
type ZoneRange struct {
	Hz  HzRange
	Vel VelRange
}

// Less orders ranges by lower frequency bound, then upper frequency bound,
// then lower and upper velocity bound.
func (r ZoneRange) Less(o ZoneRange) bool {
	switch {
	case r.Hz.Min != o.Hz.Min:
		return r.Hz.Min < o.Hz.Min
	case r.Hz.Max != o.Hz.Max:
		return r.Hz.Max < o.Hz.Max
	case r.Vel.Min != o.Vel.Min:
		return r.Vel.Min < o.Vel.Min
	}
	return r.Vel.Max < o.Vel.Max
}

// Sample is a recording together with the pitch and velocity it was recorded at.
type Sample struct {
	BaseHz  float64
	BaseVel float32
	Audio   Source
}

type Zone struct {
	Range  ZoneRange
	Sample Sample
}

// ZoneMap maps frequency and velocity ranges to samples. Overlapping zones
// are allowed; Lookup returns the first match in stored order.
//
// A ZoneMap is not safe for concurrent mutation. The sampler swaps whole
// maps (see Sampler.SetZones) instead of editing one that is playing.
type ZoneMap struct {
	zones []Zone
}

func NewZoneMap() *ZoneMap {
	return &ZoneMap{}
}

// SingleZone maps sample to every frequency and velocity.
func SingleZone(s Sample) *ZoneMap {
	return &ZoneMap{zones: []Zone{{
		Range: ZoneRange{
			Hz:  HzRange{Min: 0, Max: MaxHz},
			Vel: VelRange{Min: MinVelocity, Max: MaxVelocity},
		},
		Sample: s,
	}}}
}

// Boundary is the upper edge of one zone built by SequentialZones.
type Boundary struct {
	Hz     float64
	Vel    float32
	Sample Sample
}

// SequentialZones builds contiguous zones where each boundary is the upper
// edge of its zone and the lower edge of the next, starting from 0 hz and
// full velocity. Velocity bounds are normalised so that Min <= Max; a zone
// whose velocity bounds coincide spans every velocity up to that bound.
func SequentialZones(bounds []Boundary) *ZoneMap {
	m := &ZoneMap{zones: make([]Zone, 0, len(bounds))}
	lastHz, lastVel := 0.0, MaxVelocity
	for _, b := range bounds {
		vel := VelRange{Min: lastVel, Max: b.Vel}
		if vel.Min > vel.Max {
			vel.Min, vel.Max = vel.Max, vel.Min
		}
		if vel.Min == vel.Max {
			vel.Min = MinVelocity
		}
		m.zones = append(m.zones, Zone{
			Range:  ZoneRange{Hz: HzRange{Min: lastHz, Max: b.Hz}, Vel: vel},
			Sample: b.Sample,
		})
		lastHz, lastVel = b.Hz, b.Vel
	}
	return m
}

// Insert adds a zone before the first stored zone whose range orders after r.
func (m *ZoneMap) Insert(r ZoneRange, s Sample) {
	z := Zone{Range: r, Sample: s}
	for i := range m.zones {
		if r.Less(m.zones[i].Range) {
			m.zones = append(m.zones, Zone{})
			copy(m.zones[i+1:], m.zones[i:])
			m.zones[i] = z
			return
		}
	}
	m.zones = append(m.zones, z)
}

// Lookup returns the sample of the first zone containing hz and vel. A miss
// means the note should be ignored.
func (m *ZoneMap) Lookup(hz float64, vel float32) (Sample, bool) {
	if m == nil {
		return Sample{}, false
	}
	for i := range m.zones {
		z := &m.zones[i]
		if z.Range.Hz.Contains(hz) && z.Range.Vel.Contains(vel) {
			return z.Sample, true
		}
	}
	return Sample{}, false
}

func (m *ZoneMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.zones)
}

// Zones returns the zones in stored order. The slice must not be modified.
func (m *ZoneMap) Zones() []Zone {
	if m == nil {
		return nil
	}
	return m.zones
}

// Clone returns a copy that can be edited without affecting m. Audio
// sources are shared.
func (m *ZoneMap) Clone() *ZoneMap {
	c := &ZoneMap{}
	if m != nil {
		c.zones = append([]Zone(nil), m.zones...)
	}
	return c
}

// NoteRange returns the frequency range covering midi notes lo through hi,
// split halfway between neighbouring semitones.
func NoteRange(lo, hi int) HzRange {
	return HzRange{Min: stepToFreq(float64(lo) - 0.5), Max: stepToFreq(float64(hi) + 0.5)}
}
