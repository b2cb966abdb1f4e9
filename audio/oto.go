package audio

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const bytesPerFrame = Channels * 4

// OtoSink plays audio through oto, which pulls interleaved float32 frames
// from Read on its own goroutine.
type OtoSink struct {
	mixer
	ctx    *oto.Context
	player *oto.Player
	buf    [][]float32
	view   [][]float32
	mu     sync.Mutex // guards player, not the Read path
}

func NewOtoSink(frames int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	s := &OtoSink{ctx: ctx}
	s.alloc(frames)
	return s, nil
}

func (s *OtoSink) alloc(frames int) {
	s.buf = make([][]float32, Channels)
	s.view = make([][]float32, Channels)
	for c := range s.buf {
		s.buf[c] = make([]float32, frames)
	}
}

// Read renders len(p)/8 stereo frames into p.
func (s *OtoSink) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames > len(s.buf[0]) {
		// oto asked for more than the configured buffer; only happens on startup
		s.alloc(frames)
	}
	out := s.view
	for c := range s.buf {
		out[c] = s.buf[c][:frames]
	}
	s.mixer.Process(out)
	for i := 0; i < frames; i++ {
		for c := 0; c < Channels; c++ {
			binary.LittleEndian.PutUint32(p[(i*Channels+c)*4:], math.Float32bits(out[c][i]))
		}
	}
	return frames * bytesPerFrame, nil
}

func (s *OtoSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		s.player = s.ctx.NewPlayer(s)
		s.player.Play()
	}
	return nil
}

func (s *OtoSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
