package audio

import (
	"reflect"
	"testing"
)

type testInstrument struct {
	events []playedNote
}

type playedNote struct {
	offset   int
	pitch    int
	velocity float32
	duration int
}

func (i *testInstrument) PlayNote(offset, pitch int, velocity float32, duration int) {
	i.events = append(i.events, playedNote{
		offset:   offset,
		pitch:    pitch,
		velocity: velocity,
		duration: duration,
	})
}

func (i *testInstrument) flush() {
	i.events = nil
}

func TestSequencer(t *testing.T) {
	const sampleRate = 44100
	const bpm = 120.0
	const bufferSize = sampleRate // use a large buffer size to make testing easier
	instrument := &testInstrument{}

	seq := NewSequencer(NewProps())
	if err := seq.Set("bpm", bpm); err != nil {
		t.Fatal(err)
	}

	clip := NewClip(4, instrument)
	clip.AddNote(0, 69, 1, 1)      // first beat
	clip.AddNote(1.25, 73, 0.5, 1) // 2nd 16th note on second beat

	if err := seq.Set(PropClips, map[string]*Clip{
		"beat": clip,
	}); err != nil {
		t.Fatal(err)
	}

	seq.Tick(bufferSize)

	if want, got := []playedNote{
		{offset: 0, pitch: 69, velocity: 1, duration: 22050},
		{offset: 27563, pitch: 73, velocity: 0.5, duration: 22050},
	}, instrument.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}

	instrument.flush()
	seq.Tick(bufferSize)

	if want, got := 0, len(instrument.events); want != got {
		t.Errorf("wanted zero events, got: %v", instrument.events)
	}

	instrument.flush()
	seq.Tick(bufferSize)

	if want, got := []playedNote{
		{offset: 0, pitch: 69, velocity: 1, duration: 22050},
		{offset: 27563, pitch: 73, velocity: 0.5, duration: 22050},
	}, instrument.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestSequencerWrapsClip(t *testing.T) {
	const bufferSize = 33075 // one and a half beats at 120 bpm
	instrument := &testInstrument{}

	seq := NewSequencer(NewProps())
	clip := NewClip(1, instrument)
	clip.AddNote(0.25, 60, 1, 0.25)
	if err := seq.Set(PropClips, map[string]*Clip{"wrap": clip}); err != nil {
		t.Fatal(err)
	}

	seq.Tick(bufferSize)
	if want, got := []playedNote{
		{offset: 5513, pitch: 60, velocity: 1, duration: 5512},
		{offset: 27563, pitch: 60, velocity: 1, duration: 5512},
	}, instrument.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}

	// The second buffer starts half way through the clip and wraps around
	// to its start.
	instrument.flush()
	seq.Tick(bufferSize)
	if want, got := []playedNote{
		{offset: 16538, pitch: 60, velocity: 1, duration: 5512},
	}, instrument.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestClipIgnoresInvalidPitch(t *testing.T) {
	clip := NewClip(1, &testInstrument{})
	clip.AddNote(0, -1, 1, 1)
	clip.AddNote(0, 128, 1, 1)
	if want, got := 0, len(clip.notes); want != got {
		t.Errorf("want %d notes, got %d", want, got)
	}
}
