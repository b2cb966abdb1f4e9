package audio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/youpy/go-wav"
)

const wavFormatPCM = 1

// defaultBaseNote is used for samples without a note in their file name (C1).
const defaultBaseNote = 24

var (
	ErrEmptySource       = errors.New("audio source has no frames")
	ErrUnsupportedFormat = errors.New("unsupported wav sample format")
)

// ChannelMappingError is returned when a file's channels cannot be mapped
// onto a Frame.
type ChannelMappingError struct {
	Source, Target int
}

func (e *ChannelMappingError) Error() string {
	return fmt.Sprintf("unsupported channel mapping: %d to %d channels", e.Source, e.Target)
}

type BitDepthError struct {
	Bits int
}

func (e *BitDepthError) Error() string {
	return fmt.Sprintf("unsupported bits per sample: %d", e.Bits)
}

// LoadBuffer decodes a PCM wav file. Mono files are copied to both channels.
// If targetRate is positive and differs from the file's rate, the frames
// are resampled to it.
func LoadBuffer(path string, targetRate float64) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("read format of %s: %w", path, err)
	}
	if format.AudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%s: format %d: %w", path, format.AudioFormat, ErrUnsupportedFormat)
	}
	switch format.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%s: %w", path, &BitDepthError{Bits: int(format.BitsPerSample)})
	}
	channels := int(format.NumChannels)
	if channels != 1 && channels != Channels {
		return nil, fmt.Errorf("%s: %w", path, &ChannelMappingError{Source: channels, Target: Channels})
	}

	// go-riff skips a zero-length trailing chunk, so an empty file reports
	// a missing data chunk.
	if _, err := r.Read(nil); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrEmptySource, err)
	}

	bits := int(format.BitsPerSample)
	var frames []Frame
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read samples of %s: %w", path, err)
		}
		for _, sample := range samples {
			var frame Frame
			for c := range frame {
				frame[c] = pcmValue(r.IntValue(sample, uint(min(c, channels-1))), bits)
			}
			frames = append(frames, frame)
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptySource)
	}

	buf := &Buffer{Frames: frames, SampleRate: float64(format.SampleRate), Path: path}
	if targetRate > 0 && buf.SampleRate != targetRate {
		buf = Resample(buf, targetRate)
	}
	return buf, nil
}

// pcmValue scales an integer PCM sample to [-1, 1). 8-bit PCM is unsigned
// and centred on 128.
func pcmValue(v, bits int) float64 {
	if bits == 8 {
		return float64(v-128) / 128
	}
	return float64(v) / float64(int64(1)<<(bits-1))
}

// Resample converts b to the given sample rate with the same linear
// interpolation voices use during playback.
func Resample(b *Buffer, rate float64) *Buffer {
	ratio := b.SampleRate / rate
	conv := NewRateConverter(NewPlayhead(b, 0), ratio)
	out := make([]Frame, 0, int(math.Ceil(float64(b.Len())/ratio)))
	for {
		f, ok := conv.Next()
		if !ok {
			break
		}
		out = append(out, f)
	}
	return &Buffer{Frames: out, SampleRate: rate, Path: b.Path}
}

// WriteBuffer writes b to path as a 16-bit stereo PCM wav file. Frames are
// clamped to [-1, 1].
func WriteBuffer(path string, b *Buffer) error {
	samples := make([]wav.Sample, b.Len())
	for i, f := range b.Frames {
		for c := range f {
			samples[i].Values[c] = int(math.Round(float64(clamp(f[c])) * math.MaxInt16))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := wav.NewWriter(f, uint32(len(samples)), Channels, uint32(b.SampleRate), 16)
	if err := w.WriteSamples(samples); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// LoadSample loads a wav file as a Sample. The base pitch is read from a
// note name in the file name (e.g. "piano_c#4.wav"), defaulting to C1.
func LoadSample(path string, targetRate float64) (Sample, error) {
	buf, err := LoadBuffer(path, targetRate)
	if err != nil {
		return Sample{}, err
	}
	note, ok := noteInName(filepath.Base(path))
	if !ok {
		note = defaultBaseNote
	}
	return Sample{BaseHz: midiToFreq(note), BaseVel: MaxVelocity, Audio: buf}, nil
}

// LoadZoneMap loads every file and spreads them across the keyboard in order
// of base pitch. Each zone reaches half a semitone above its sample's base
// pitch; the highest zone covers everything above.
func LoadZoneMap(paths []string, targetRate float64) (*ZoneMap, error) {
	samples := make([]Sample, 0, len(paths))
	for _, path := range paths {
		s, err := LoadSample(path, targetRate)
		if err != nil {
			return nil, err
		}
		log.Printf("wav: loaded %s (%d frames, base %.2fhz)", path, s.Audio.Len(), s.BaseHz)
		samples = append(samples, s)
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].BaseHz < samples[j].BaseHz
	})
	bounds := make([]Boundary, len(samples))
	for i, s := range samples {
		hz := stepToFreq(freqToStep(s.BaseHz) + 0.5)
		if i == len(samples)-1 {
			hz = MaxHz
		}
		bounds[i] = Boundary{Hz: hz, Vel: MaxVelocity, Sample: s}
	}
	return SequentialZones(bounds), nil
}
