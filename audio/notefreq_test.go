package audio

import (
	"math"
	"testing"
)

func TestConstantFreq(t *testing.T) {
	f := Constant()()
	if _, _, ok := f.Next(); ok {
		t.Errorf("expected untriggered note to be inactive")
	}
	f.Trigger(330, 0.75, false)
	amp, hz, ok := f.Next()
	if !ok {
		t.Fatal("expected triggered note to be active")
	}
	if amp != 0.75 || hz != 330 {
		t.Errorf("want (0.75, 330), got (%v, %v)", amp, hz)
	}
	if f.Release() {
		t.Errorf("expected no release tail")
	}
	if _, _, ok := f.Next(); ok {
		t.Errorf("expected released note to be inactive")
	}
}

func newEnvelopeFreq(t *testing.T, settings map[string]float64) NoteFreq {
	t.Helper()
	props := NewProps()
	gen := Envelope(props)
	for k, v := range settings {
		if err := props.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	return gen()
}

func TestEnvelopeFreqADSR(t *testing.T) {
	f := newEnvelopeFreq(t, map[string]float64{
		propEnvAttack:  0.01,
		propEnvDecay:   0.01,
		propEnvSustain: 0.5,
		propEnvRelease: 0.01,
	})
	f.Trigger(440, 1, false)

	var peak float32
	for i := 0; i < 441; i++ {
		amp, hz, ok := f.Next()
		if !ok {
			t.Fatalf("note ended during attack at frame %d", i)
		}
		if hz != 440 {
			t.Fatalf("want 440hz, got %v", hz)
		}
		if amp > peak {
			peak = amp
		}
	}
	if peak < 0.99 {
		t.Errorf("want attack to reach full amplitude, got %v", peak)
	}

	for i := 0; i < 1000; i++ {
		f.Next()
	}
	amp, _, _ := f.Next()
	if math.Abs(float64(amp)-0.5) > 1e-6 {
		t.Errorf("want sustain level 0.5, got %v", amp)
	}

	if !f.Release() {
		t.Fatalf("expected a release tail")
	}
	frames := 0
	for ; frames < 10000; frames++ {
		if _, _, ok := f.Next(); !ok {
			break
		}
	}
	if frames < 440 || frames > 443 {
		t.Errorf("want release to take about 441 frames, got %d", frames)
	}
}

func TestEnvelopeFreqVelocity(t *testing.T) {
	f := newEnvelopeFreq(t, map[string]float64{propEnvAttack: 0})
	f.Trigger(440, 0.25, false)
	amp, _, _ := f.Next()
	if want, got := float32(0.25), amp; want != got {
		t.Errorf("want amplitude %v, got %v", want, got)
	}
}

func TestEnvelopeFreqDetune(t *testing.T) {
	f := newEnvelopeFreq(t, map[string]float64{propDetune: 1200})
	f.Trigger(220, 1, false)
	_, hz, _ := f.Next()
	if math.Abs(hz-440) > 1e-9 {
		t.Errorf("want a detune of 1200 cents to double the pitch, got %v", hz)
	}
}

func TestEnvelopeFreqLegato(t *testing.T) {
	f := newEnvelopeFreq(t, map[string]float64{propEnvAttack: 1})
	f.Trigger(440, 1, false)
	var before float32
	for i := 0; i < 100; i++ {
		before, _, _ = f.Next()
	}

	f.Trigger(880, 1, true)
	amp, hz, _ := f.Next()
	if amp <= before {
		t.Errorf("legato trigger restarted the envelope: %v after %v", amp, before)
	}
	if want, got := 880.0, hz; want != got {
		t.Errorf("want %vhz without glide, got %v", want, got)
	}
}

func TestEnvelopeFreqGlide(t *testing.T) {
	f := newEnvelopeFreq(t, map[string]float64{propGlide: 0.1})
	f.Trigger(440, 1, false)
	f.Next()

	f.Trigger(880, 1, true)
	_, hz, _ := f.Next()
	if hz <= 440 || hz >= 880 {
		t.Errorf("want glide between 440 and 880hz, got %v", hz)
	}
	for i := 0; i < SampleRate/10; i++ {
		_, hz, _ = f.Next()
	}
	if math.Abs(hz-880) > 880*0.01 {
		t.Errorf("want pitch within 1%% of 880hz after the glide time, got %v", hz)
	}

	// a non-legato trigger jumps straight to the new pitch
	f.Trigger(220, 1, false)
	if _, hz, _ = f.Next(); hz != 220 {
		t.Errorf("want 220hz, got %v", hz)
	}
}

func TestEnvelopeRate(t *testing.T) {
	if want, got := 1.0, perFrame(1, 0); want != got {
		t.Errorf("want zero length segment to finish in one frame, got step %v", got)
	}
	if want, got := 1.0/SampleRate, perFrame(1, 1); want != got {
		t.Errorf("want step %v, got %v", want, got)
	}
}
