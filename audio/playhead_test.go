package audio

import (
	"math"
	"testing"
)

// ramp returns a buffer whose frame i holds i on both channels.
func ramp(n int) *Buffer {
	b := &Buffer{Frames: make([]Frame, n), SampleRate: SampleRate}
	for i := range b.Frames {
		b.Frames[i] = Frame{float64(i), float64(i)}
	}
	return b
}

func drain(c *RateConverter, limit int) []Frame {
	var out []Frame
	for i := 0; i < limit; i++ {
		f, ok := c.Next()
		if !ok {
			break
		}
		out = append(out, f)
	}
	return out
}

func TestPlayhead(t *testing.T) {
	ph := NewPlayhead(ramp(3), 1)
	for _, want := range []float64{1, 2} {
		f, ok := ph.Next()
		if !ok {
			t.Fatalf("unexpected end of source at %d", ph.Index())
		}
		if f[0] != want {
			t.Errorf("want frame %v, got %v", want, f[0])
		}
	}
	if _, ok := ph.Next(); ok {
		t.Errorf("expected playhead to be exhausted")
	}
	if want, got := 4, ph.Index(); want != got {
		t.Errorf("want index %d, got %d", want, got)
	}
}

func TestRateConverterUnity(t *testing.T) {
	src := ramp(10)
	c := NewRateConverter(NewPlayhead(src, 0), 1)
	out := drain(&c, 100)
	if want, got := src.Len(), len(out); want != got {
		t.Fatalf("want %d frames, got %d", want, got)
	}
	for i, f := range out {
		if f != src.Frames[i] {
			t.Errorf("frame %d: want %v, got %v", i, src.Frames[i], f)
		}
	}
}

func TestRateConverterDouble(t *testing.T) {
	src := ramp(100)
	c := NewRateConverter(NewPlayhead(src, 0), 2)
	out := drain(&c, 1000)
	if n := len(out); n < 49 || n > 51 {
		t.Errorf("want about 50 frames at ratio 2, got %d", n)
	}
	for i, f := range out {
		if want := float64(2 * i); f[0] != want {
			t.Errorf("frame %d: want %v, got %v", i, want, f[0])
		}
	}
}

func TestRateConverterHalf(t *testing.T) {
	src := ramp(4)
	c := NewRateConverter(NewPlayhead(src, 0), 0.5)
	out := drain(&c, 100)
	want := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3}
	if len(out) != len(want) {
		t.Fatalf("want %d frames, got %d: %v", len(want), len(out), out)
	}
	for i := range want {
		if math.Abs(out[i][0]-want[i]) > 1e-9 {
			t.Errorf("frame %d: want %v, got %v", i, want[i], out[i][0])
		}
	}
}

func TestRateConverterOrigin(t *testing.T) {
	src := ramp(10)
	c := NewRateConverter(NewPlayhead(src, 6), 1)
	if want, got := 6, c.Index(); want != got {
		t.Errorf("want index %d, got %d", want, got)
	}
	out := drain(&c, 100)
	if want, got := 4, len(out); want != got {
		t.Fatalf("want %d frames, got %d", want, got)
	}
	if want, got := 6.0, out[0][0]; want != got {
		t.Errorf("want first frame %v, got %v", want, got)
	}
	if want, got := 10, c.Index(); want != got {
		t.Errorf("want index %d after exhaustion, got %d", want, got)
	}
}

func TestRateConverterSetRatio(t *testing.T) {
	c := NewRateConverter(NewPlayhead(ramp(10), 0), 1)
	c.SetRatio(0)
	c.SetRatio(-3)
	if want, got := 1.0, c.Ratio(); want != got {
		t.Errorf("want ratio %v, got %v", want, got)
	}
	c.SetRatio(3)
	drain(&c, 2)
	if want, got := 6, c.Index(); want != got {
		t.Errorf("want index %d, got %d", want, got)
	}
}

func TestRateConverterEmpty(t *testing.T) {
	c := NewRateConverter(NewPlayhead(ramp(0), 0), 1)
	if _, ok := c.Next(); ok {
		t.Errorf("expected empty source to be exhausted")
	}
}

func TestSlice(t *testing.T) {
	src := ramp(10)
	s := &Slice{Source: src, Start: 2, End: 5}
	if want, got := 3, s.Len(); want != got {
		t.Fatalf("want length %d, got %d", want, got)
	}
	if want, got := 4.0, s.Frame(2)[0]; want != got {
		t.Errorf("want frame %v, got %v", want, got)
	}

	for _, r := range [][2]int{{5, 2}, {-1, 3}, {8, 11}} {
		empty := &Slice{Source: src, Start: r[0], End: r[1]}
		if want, got := 0, empty.Len(); want != got {
			t.Errorf("%v: want empty slice, got length %d", r, got)
		}
	}
	if want, got := 10, NewSlice(src).Len(); want != got {
		t.Errorf("want full slice of length %d, got %d", want, got)
	}
}
