package audio

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Props stores device configuration that can be updated without locks. All
// properties should be registered before any reads take place; after that
// Set may be called from a control goroutine while the audio thread loads
// the values.
type Props struct {
	properties map[string]*atomic.Value
	setters    map[string]setter
}

func NewProps() *Props {
	return &Props{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]setter),
	}
}

// Set validates value and stores it. The key has to be registered first
// using Register.
func (p *Props) Set(key string, value any) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	if err := p.setters[key](value, prop); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (any, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Keys returns the registered property names in sorted order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register adds a new property with an initial value.
func (p *Props) Register(key string, set setter, init any) (*atomic.Value, error) {
	if _, ok := p.properties[key]; ok {
		return nil, fmt.Errorf("property %s already registered", key)
	}
	var prop atomic.Value
	if err := set(init, &prop); err != nil {
		return nil, fmt.Errorf("register %s: %w", key, err)
	}
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, nil
}

func (p *Props) MustRegister(key string, set setter, init any) *atomic.Value {
	prop, err := p.Register(key, set, init)
	if err != nil {
		panic(err)
	}
	return prop
}

type setter func(val any, dest *atomic.Value) error

var (
	setEnvParam = setFloat64(0, 15)
	setLevel    = setFloat64(-40, 10)
	setVoices   = setInt(1, maxVoices)
)

func setFloat64(min, max float64) setter {
	return func(v any, dest *atomic.Value) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("value is not a float64: %v", v)
		}
		if f < min || f > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, f)
		}
		dest.Store(f)
		return nil
	}
}

func setInt(min, max int) setter {
	return func(v any, dest *atomic.Value) error {
		var i int
		switch n := v.(type) {
		case float64:
			i = int(n)
		case int:
			i = n
		default:
			return fmt.Errorf("value is not an int: %v", v)
		}
		if i < min || i > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, i)
		}
		dest.Store(i)
		return nil
	}
}

func setMode(v any, dest *atomic.Value) error {
	switch m := v.(type) {
	case ModeKind:
		dest.Store(m)
	case string:
		kind, err := ParseModeKind(m)
		if err != nil {
			return err
		}
		dest.Store(kind)
	default:
		return fmt.Errorf("value is not a mode: %v", v)
	}
	return nil
}

func setZoneMap(v any, dest *atomic.Value) error {
	m, ok := v.(*ZoneMap)
	if !ok || m == nil {
		return fmt.Errorf("property value is not a zone map: %v", v)
	}
	dest.Store(m)
	return nil
}
