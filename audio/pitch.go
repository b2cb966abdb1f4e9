package audio

import (
	"math"
	"strconv"
	"strings"
)

func midiToFreq(note int) float64 {
	return stepToFreq(float64(note))
}

func stepToFreq(step float64) float64 {
	return math.Pow(2, (step-69)/12.0) * 440
}

func freqToStep(hz float64) float64 {
	return 69 + 12*math.Log2(hz/440)
}

// MidiToFreq converts a midi note number to its frequency in hz.
func MidiToFreq(note int) float64 { return midiToFreq(note) }

// letters maps note spellings to semitones above C. Longer spellings come
// first so that "c#" is matched before "c".
var letters = []struct {
	name     string
	semitone int
}{
	{"c#", 1}, {"csh", 1}, {"d#", 3}, {"dsh", 3}, {"f#", 6}, {"fsh", 6},
	{"g#", 8}, {"gsh", 8}, {"a#", 10}, {"ash", 10},
	{"c", 0}, {"d", 2}, {"e", 4}, {"f", 5}, {"g", 7}, {"a", 9}, {"b", 11},
}

const (
	minOctave = -8
	maxOctave = 24
)

// ParseNoteName parses a note name such as "a4", "c#3" or "gsh-1" and
// returns its midi note number.
func ParseNoteName(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range letters {
		rest, ok := strings.CutPrefix(s, l.name)
		if !ok {
			continue
		}
		oct, ok := parseOctave(rest)
		if !ok {
			continue
		}
		return (oct+1)*12 + l.semitone, true
	}
	return 0, false
}

func parseOctave(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < minOctave || n >= maxOctave {
		return 0, false
	}
	return n, true
}

// noteInName scans a file name for an embedded note such as "piano_c#4.wav".
func noteInName(name string) (int, bool) {
	name = strings.ToLower(name)
	for _, l := range letters {
		// Highest octave first so that "c10" is not read as "c1".
		for oct := maxOctave - 1; oct >= minOctave; oct-- {
			pattern := l.name + strconv.Itoa(oct)
			if strings.Contains(name, pattern) {
				return (oct+1)*12 + l.semitone, true
			}
		}
	}
	return 0, false
}
