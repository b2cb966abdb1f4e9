package audio

import (
	"fmt"
	"sort"
)

type Device interface {
	Set(key string, val any) error
	Get(key string) (any, error)
}

type preset map[string]any

var presets = map[string]preset{
	"keys": {
		"mode":        "poly",
		"env.attack":  0.002,
		"env.sustain": 1.,
		"env.release": 0.3,
		"glide":       0.,
	},
	"lead": {
		"mode":        "legato",
		"env.attack":  0.01,
		"env.sustain": 0.8,
		"env.release": 0.1,
		"glide":       0.08,
	},
	"pluck": {
		"mode":        "retrigger",
		"env.attack":  0.,
		"env.decay":   0.4,
		"env.sustain": 0.,
		"env.release": 0.05,
	},
}

// LoadPreset applies the named preset to d. Keys are applied in sorted
// order.
func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := d.Set(k, p[k]); err != nil {
			return err
		}
	}
	return nil
}

// Presets returns the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
