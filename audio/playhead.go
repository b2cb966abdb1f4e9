package audio

// Playhead is a forward-only cursor over a Source.
type Playhead struct {
	src Source
	idx int
}

// NewPlayhead returns a playhead over src positioned at idx.
func NewPlayhead(src Source, idx int) Playhead {
	return Playhead{src: src, idx: idx}
}

// Next returns the frame at the cursor and advances it. It reports false
// once the cursor has passed the end of the source.
func (p *Playhead) Next() (Frame, bool) {
	idx := p.idx
	p.idx++
	if idx < 0 || idx >= p.src.Len() {
		return Equilibrium, false
	}
	return p.src.Frame(idx), true
}

// Index is the index of the next frame Next will return.
func (p *Playhead) Index() int { return p.idx }

// RateConverter resamples a Playhead at a variable ratio using linear
// interpolation. A ratio of 2 plays the source an octave up.
//
// The converter keeps the two source frames around the current fractional
// position. left is the frame at pos, right the one after it. The step
// taken after each output is held in frac until the next call to Next.
type RateConverter struct {
	ph    Playhead
	ratio float64
	frac  float64
	pos   int

	left, right       Frame
	hasLeft, hasRight bool
}

// NewRateConverter starts converting at the playhead's current index, which
// becomes the origin of the fractional position.
func NewRateConverter(ph Playhead, ratio float64) RateConverter {
	c := RateConverter{ph: ph, ratio: ratio, pos: ph.Index()}
	c.left, c.hasLeft = c.ph.Next()
	c.right, c.hasRight = c.ph.Next()
	return c
}

// NewRateConverterAt is like NewRateConverter but starts frac frames past the
// playhead's index.
func NewRateConverterAt(ph Playhead, ratio, frac float64) RateConverter {
	c := NewRateConverter(ph, ratio)
	if frac > 0 {
		c.frac = frac
	}
	return c
}

// SetRatio changes the playback rate for the following frames. Ratios that
// are not positive are ignored.
func (c *RateConverter) SetRatio(ratio float64) {
	if ratio > 0 {
		c.ratio = ratio
	}
}

func (c *RateConverter) Ratio() float64 { return c.ratio }

// Position is the fractional source position of the next output frame.
func (c *RateConverter) Position() float64 { return float64(c.pos) + c.frac }

// Index is the integer part of Position.
func (c *RateConverter) Index() int { return c.pos + int(c.frac) }

// Next returns the next output frame, or false when the source is
// exhausted.
func (c *RateConverter) Next() (Frame, bool) {
	for c.frac >= 1 && c.hasLeft {
		c.left, c.hasLeft = c.right, c.hasRight
		if c.hasRight {
			c.right, c.hasRight = c.ph.Next()
		}
		c.frac--
		c.pos++
	}
	if !c.hasLeft {
		return Equilibrium, false
	}
	out := c.left
	if c.hasRight && c.frac > 0 {
		out = c.left.Lerp(c.right, c.frac)
	}
	c.frac += c.ratio
	return out, true
}
