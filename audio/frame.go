package audio

// Channels is the number of channels in every Frame.
const Channels = 2

// Frame is one stereo sample frame.
type Frame [Channels]float64

// Equilibrium is the silent frame.
var Equilibrium Frame

func (f Frame) Add(o Frame) Frame {
	for c := range f {
		f[c] += o[c]
	}
	return f
}

func (f Frame) Scale(amp float64) Frame {
	for c := range f {
		f[c] *= amp
	}
	return f
}

// Lerp interpolates linearly from f towards o, t in [0, 1].
func (f Frame) Lerp(o Frame, t float64) Frame {
	for c := range f {
		f[c] += t * (o[c] - f[c])
	}
	return f
}

func (f Frame) IsSilent() bool {
	return f == Equilibrium
}

// clamp limits a mixed sample to the range of the float32 output format.
func clamp(v float64) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return float32(v)
}
