package audio

import (
	"math"
	"testing"
)

func TestParseNoteName(t *testing.T) {
	type test struct {
		input  string
		expect int
		ok     bool
	}
	tests := []test{
		{input: "a4", expect: 69, ok: true},
		{input: "C4", expect: 60, ok: true},
		{input: "c#3", expect: 49, ok: true},
		{input: "csh3", expect: 49, ok: true},
		{input: "b-1", expect: 11, ok: true},
		{input: " g#10 ", expect: 140, ok: true},
		{input: "h4"},
		{input: "a"},
		{input: "a4x"},
		{input: "a24"},
		{input: ""},
	}
	for _, test := range tests {
		got, ok := ParseNoteName(test.input)
		if ok != test.ok {
			t.Errorf("ParseNoteName(%q): want ok %v, got %v", test.input, test.ok, ok)
			continue
		}
		if ok && got != test.expect {
			t.Errorf("ParseNoteName(%q): want %d, got %d", test.input, test.expect, got)
		}
	}
}

func TestNoteInName(t *testing.T) {
	type test struct {
		name   string
		expect int
		ok     bool
	}
	tests := []test{
		{name: "piano_a4.wav", expect: 69, ok: true},
		{name: "strings-F#2-soft.wav", expect: 42, ok: true},
		{name: "bell_c10.wav", expect: 132, ok: true},
		{name: "kick.wav"},
	}
	for _, test := range tests {
		got, ok := noteInName(test.name)
		if ok != test.ok {
			t.Errorf("noteInName(%q): want ok %v, got %v", test.name, test.ok, ok)
			continue
		}
		if ok && got != test.expect {
			t.Errorf("noteInName(%q): want %d, got %d", test.name, test.expect, got)
		}
	}
}

func TestFreqConversion(t *testing.T) {
	if want, got := 440.0, MidiToFreq(69); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := 880.0, MidiToFreq(81); math.Abs(want-got) > 1e-9 {
		t.Errorf("want %v, got %v", want, got)
	}
	for _, note := range []int{0, 21, 60, 127} {
		if got := freqToStep(midiToFreq(note)); math.Abs(got-float64(note)) > 1e-9 {
			t.Errorf("round trip of note %d gave %v", note, got)
		}
	}
}
