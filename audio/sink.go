package audio

import (
	"github.com/gordonklaus/portaudio"
)

// AudioProcessor renders audio by adding into one buffer per output channel.
type AudioProcessor interface {
	Process([][]float32)
}

type Ticker interface {
	Tick(numSamples int)
}

// mixer runs tickers and processors for every output buffer.
type mixer struct {
	processors []AudioProcessor
	tickers    []Ticker
}

func (m *mixer) AddProcessors(p ...AudioProcessor) {
	m.processors = append(m.processors, p...)
}

func (m *mixer) AddTicker(ticker Ticker) {
	m.tickers = append(m.tickers, ticker)
}

func (m *mixer) Process(samples [][]float32) {
	for i := range samples {
		for j := range samples[i] {
			samples[i][j] = 0.
		}
	}
	for _, ticker := range m.tickers {
		ticker.Tick(len(samples[0]))
	}
	for _, p := range m.processors {
		p.Process(samples)
	}
}

// Sink plays audio on the default portaudio output device.
type Sink struct {
	mixer
	stream *portaudio.Stream
}

func NewSink(frames int) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	s := &Sink{}
	stream, err := portaudio.OpenDefaultStream(0, Channels, SampleRate, frames, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	return s, nil
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Stop() error {
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}
