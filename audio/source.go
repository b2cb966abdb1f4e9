package audio

// Source is a read-only sequence of frames at a fixed sample rate.
// Frame is only defined for 0 <= i < Len().
type Source interface {
	Len() int
	Frame(i int) Frame
}

// Buffer is a decoded recording held in memory. Voices share a *Buffer and
// never write to it.
type Buffer struct {
	Frames     []Frame
	SampleRate float64
	Path       string
}

func (b *Buffer) Len() int          { return len(b.Frames) }
func (b *Buffer) Frame(i int) Frame { return b.Frames[i] }

// Slice plays the frames of Source between Start and End. A range that does
// not fit inside Source behaves as an empty source.
type Slice struct {
	Source     Source
	Start, End int
}

// NewSlice returns a Slice spanning all of src.
func NewSlice(src Source) *Slice {
	return &Slice{Source: src, Start: 0, End: src.Len()}
}

func (s *Slice) valid() bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= s.Source.Len()
}

func (s *Slice) Len() int {
	if !s.valid() {
		return 0
	}
	return s.End - s.Start
}

func (s *Slice) Frame(i int) Frame {
	return s.Source.Frame(s.Start + i)
}
