package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrdg/sampler/audio"
)

type sink interface {
	Start() error
	Stop() error
	AddProcessors(...audio.AudioProcessor)
	AddTicker(audio.Ticker)
}

func openSink(name string, frames int) (sink, error) {
	switch name {
	case "portaudio":
		s, err := audio.NewSink(frames)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "oto":
		s, err := audio.NewOtoSink(frames)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown sink: %s", name)
	}
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	files, err := filepath.Glob(cfg.sounds)
	if err != nil {
		log.Fatal(err)
	}
	zones := audio.NewZoneMap()
	if len(files) > 0 {
		zones, err = audio.LoadZoneMap(files, audio.SampleRate)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Printf("sampler: no sounds match %s", cfg.sounds)
	}

	kind, err := audio.ParseModeKind(cfg.mode)
	if err != nil {
		log.Fatal(err)
	}

	props := audio.NewProps()
	sampler := audio.NewSampler(props, zones, audio.Envelope(props))
	sampler.SetMode(kind)
	if err := sampler.SetVoiceCount(cfg.voices); err != nil {
		log.Fatalf("voices: %v", err)
	}
	sampler.SetBufferSize(cfg.buffer)
	seq := audio.NewSequencer(audio.NewProps())

	out, err := openSink(cfg.sink, cfg.buffer)
	if err != nil {
		log.Fatal(err)
	}
	out.AddTicker(seq)
	out.AddProcessors(sampler)
	if err := out.Start(); err != nil {
		log.Fatal(err)
	}
	defer out.Stop()

	host := &env{
		sampler:   sampler,
		sequencer: seq,
		devices: map[string]audio.Device{
			"sampler": sampler,
			"seq":     seq,
		},
	}

	if cfg.run != "" {
		if err := runFile(host, cfg.run); err != nil {
			log.Fatal(err)
		}
	}
	if err := repl(host, os.Stdin); err != nil {
		log.Print(err)
	}
}

func runFile(env *env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := env.eval(line); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return scanner.Err()
}
