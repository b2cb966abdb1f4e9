package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/mrdg/sampler/audio"
)

// config holds the startup settings. Flags default to SAMPLER_* environment
// variables.
type config struct {
	sounds string
	mode   string
	voices int
	sink   string
	buffer int
	run    string
}

func loadConfig(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("sampler", flag.ContinueOnError)
	fs.StringVar(&cfg.sounds, "sounds", envStr("SAMPLER_SOUNDS", "*.wav"), "glob of wav files to map across the keyboard")
	fs.StringVar(&cfg.mode, "mode", envStr("SAMPLER_MODE", "poly"), "legato, retrigger or poly")
	fs.IntVar(&cfg.voices, "voices", envInt("SAMPLER_VOICES", audio.DefaultVoices), "number of voices")
	fs.StringVar(&cfg.sink, "sink", envStr("SAMPLER_SINK", "portaudio"), "audio output: portaudio or oto")
	fs.IntVar(&cfg.buffer, "buffer", envInt("SAMPLER_BUFFER", 256), "frames per audio buffer")
	fs.StringVar(&cfg.run, "run", "", "file with commands to run before the prompt")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
