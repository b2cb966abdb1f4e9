package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrdg/sampler/audio"
)

type env struct {
	sampler   *audio.Sampler
	sequencer *audio.Sequencer
	devices   map[string]audio.Device
}

func (e *env) device(name string) (audio.Device, error) {
	dev, ok := e.devices[name]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", name)
	}
	return dev, nil
}

func (e *env) eval(input string) (string, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", nil
	}
	name, args := parts[0], parts[1:]
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if len(args) < cmd.minArgs {
			return "", fmt.Errorf("%s: not enough arguments, usage: %s", cmd.name, cmd.usage)
		}
		result, err := cmd.run(e, args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

type command struct {
	name    string
	usage   string
	run     func(*env, []string) (string, error)
	minArgs int
}

var commands []command

// maxReleaseFrames bounds the release tail written by render.
const maxReleaseFrames = 15 * audio.SampleRate

func init() {
	commands = []command{
		{"on", "on <note> [velocity]", noteOnCommand, 1},
		{"off", "off <note>", noteOffCommand, 1},
		{"stop", "stop", stopCommand, 0},
		{"mode", "mode legato|retrigger|poly", modeCommand, 1},
		{"voices", "voices <n>", voicesCommand, 1},
		{"set", "set <device> <key> <value>", setCommand, 3},
		{"get", "get <device> [key]", getCommand, 1},
		{"load", "load <file> <low note> <high note> [min vel] [max vel] [start frame] [end frame]", loadCommand, 3},
		{"render", "render <file> <note> [seconds]", renderCommand, 2},
		{"zones", "zones", zonesCommand, 0},
		{"loop", "loop <name> <beats> <note|-> ...", loopCommand, 3},
		{"preset", "preset <name>", presetCommand, 1},
		{"help", "help", helpCommand, 0},
	}
}

func noteOnCommand(e *env, args []string) (string, error) {
	hz, err := parseNote(args[0])
	if err != nil {
		return "", err
	}
	vel := audio.MaxVelocity
	if len(args) > 1 {
		if vel, err = parseVelocity(args[1]); err != nil {
			return "", err
		}
	}
	e.sampler.QueueNoteOn(hz, vel)
	return "", nil
}

func noteOffCommand(e *env, args []string) (string, error) {
	hz, err := parseNote(args[0])
	if err != nil {
		return "", err
	}
	e.sampler.QueueNoteOff(hz)
	return "", nil
}

func stopCommand(e *env, args []string) (string, error) {
	e.sampler.QueueStop()
	return "", nil
}

func modeCommand(e *env, args []string) (string, error) {
	return "", e.sampler.Set(audio.PropMode, args[0])
}

func voicesCommand(e *env, args []string) (string, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", err
	}
	return "", e.sampler.Set(audio.PropVoices, n)
}

func setCommand(e *env, args []string) (string, error) {
	dev, err := e.device(args[0])
	if err != nil {
		return "", err
	}
	value := strings.Join(args[2:], " ")
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return "", dev.Set(args[1], f)
	}
	return "", dev.Set(args[1], value)
}

type keyLister interface {
	Keys() []string
}

func getCommand(e *env, args []string) (string, error) {
	dev, err := e.device(args[0])
	if err != nil {
		return "", err
	}
	keys := args[1:]
	if len(keys) == 0 {
		if l, ok := dev.(keyLister); ok {
			keys = l.Keys()
		}
	}
	var lines []string
	for _, key := range keys {
		v, err := dev.Get(key)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("%s = %s", key, formatValue(v)))
	}
	return strings.Join(lines, "\n"), nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case *audio.ZoneMap:
		return fmt.Sprintf("%d zones", v.Len())
	case map[string]*audio.Clip:
		return fmt.Sprintf("%d clips", len(v))
	default:
		return fmt.Sprint(v)
	}
}

func loadCommand(e *env, args []string) (string, error) {
	lo, err := parseMidi(args[1])
	if err != nil {
		return "", err
	}
	hi, err := parseMidi(args[2])
	if err != nil {
		return "", err
	}
	if hi < lo {
		return "", fmt.Errorf("empty note range %s-%s", args[1], args[2])
	}
	vel := audio.VelRange{Min: audio.MinVelocity, Max: audio.MaxVelocity}
	if len(args) > 3 {
		if vel.Min, err = parseVelocity(args[3]); err != nil {
			return "", err
		}
	}
	if len(args) > 4 {
		if vel.Max, err = parseVelocity(args[4]); err != nil {
			return "", err
		}
	}
	sample, err := audio.LoadSample(args[0], audio.SampleRate)
	if err != nil {
		return "", err
	}
	if len(args) > 5 {
		slice := audio.NewSlice(sample.Audio)
		if slice.Start, err = strconv.Atoi(args[5]); err != nil {
			return "", err
		}
		if len(args) > 6 {
			if slice.End, err = strconv.Atoi(args[6]); err != nil {
				return "", err
			}
		}
		if slice.Len() == 0 {
			return "", fmt.Errorf("empty frame range %d-%d of %d frames", slice.Start, slice.End, sample.Audio.Len())
		}
		sample.Audio = slice
	}
	zones := e.sampler.Zones().Clone()
	zones.Insert(audio.ZoneRange{Hz: audio.NoteRange(lo, hi), Vel: vel}, sample)
	if err := e.sampler.Set(audio.PropZones, zones); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d zones", zones.Len()), nil
}

func zonesCommand(e *env, args []string) (string, error) {
	var lines []string
	for i, z := range e.sampler.Zones().Zones() {
		lines = append(lines, fmt.Sprintf("%2d  %9.2f-%-9.2fhz  vel %.2f-%.2f  base %.2fhz  %s",
			i, z.Range.Hz.Min, z.Range.Hz.Max, z.Range.Vel.Min, z.Range.Vel.Max, z.Sample.BaseHz, sourceName(z.Sample.Audio)))
	}
	if len(lines) == 0 {
		return "no zones", nil
	}
	return strings.Join(lines, "\n"), nil
}

func sourceName(src audio.Source) string {
	switch src := src.(type) {
	case *audio.Buffer:
		if src.Path != "" {
			return src.Path
		}
	case *audio.Slice:
		return fmt.Sprintf("%s [%d:%d]", sourceName(src.Source), src.Start, src.End)
	}
	return "-"
}

// renderCommand bounces a note to a wav file. The note is held for the
// given number of seconds and its release tail is rendered after that.
func renderCommand(e *env, args []string) (string, error) {
	hz, err := parseNote(args[1])
	if err != nil {
		return "", err
	}
	seconds := 1.0
	if len(args) > 2 {
		if seconds, err = strconv.ParseFloat(args[2], 64); err != nil || seconds <= 0 {
			return "", fmt.Errorf("invalid length: %s", args[2])
		}
	}
	hold := int(seconds * audio.SampleRate)
	buf, err := e.sampler.Bounce(hz, audio.MaxVelocity, hold, hold+maxReleaseFrames)
	if err != nil {
		return "", err
	}
	if err := audio.WriteBuffer(args[0], buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d frames", buf.Len()), nil
}

// loopCommand spreads the given notes evenly over a clip of the given length
// in beats. A "-" is a rest.
func loopCommand(e *env, args []string) (string, error) {
	name := args[0]
	beats, err := strconv.ParseFloat(args[1], 64)
	if err != nil || beats <= 0 {
		return "", fmt.Errorf("invalid clip length: %s", args[1])
	}
	steps := args[2:]
	clip := audio.NewClip(beats, e.sampler)
	length := beats / float64(len(steps))
	for i, step := range steps {
		if step == "-" {
			continue
		}
		pitch, err := parseMidi(step)
		if err != nil {
			return "", err
		}
		clip.AddNote(float64(i)*length, pitch, audio.MaxVelocity, length)
	}
	v, err := e.sequencer.Get(audio.PropClips)
	if err != nil {
		return "", err
	}
	old := v.(map[string]*audio.Clip)
	// copy the map so we don't modify it in place.
	clips := make(map[string]*audio.Clip, len(old)+1)
	for k, v := range old {
		clips[k] = v
	}
	clips[name] = clip
	return "", e.sequencer.Set(audio.PropClips, clips)
}

func presetCommand(e *env, args []string) (string, error) {
	return "", audio.LoadPreset(args[0], e.sampler)
}

func helpCommand(e *env, args []string) (string, error) {
	lines := make([]string, 0, len(commands)+1)
	for _, cmd := range commands {
		lines = append(lines, cmd.usage)
	}
	lines = append(lines, "presets: "+strings.Join(audio.Presets(), ", "))
	return strings.Join(lines, "\n"), nil
}

// parseNote reads a frequency given as "<hz>hz", a midi note number or a
// note name such as "c#4".
func parseNote(s string) (float64, error) {
	if v, ok := strings.CutSuffix(strings.ToLower(s), "hz"); ok {
		hz, err := strconv.ParseFloat(v, 64)
		if err != nil || hz <= 0 {
			return 0, fmt.Errorf("invalid frequency: %s", s)
		}
		return hz, nil
	}
	n, err := parseMidi(s)
	if err != nil {
		return 0, err
	}
	return audio.MidiToFreq(n), nil
}

func parseMidi(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("midi note out of range: %d", n)
		}
		return n, nil
	}
	if n, ok := audio.ParseNoteName(s); ok {
		return n, nil
	}
	return 0, fmt.Errorf("not a note: %s", s)
}

func parseVelocity(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil || v < 0 || v > 1 {
		return 0, fmt.Errorf("velocity must be between 0 and 1: %s", s)
	}
	return float32(v), nil
}
