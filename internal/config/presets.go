package config

import "sort"

// Presets are well-known Gray–Scott regimes on the Karl Sims rates
// (ru=1, rv=0.5, dt=1).
var Presets = map[string]*Config{
	"default": {F: 0.055, K: 0.062, Init: "clump"},
	"mitosis": {F: 0.0367, K: 0.0649, Init: "clump"},
	"coral":   {F: 0.0545, K: 0.062, Init: "noise"},
	"spots":   {F: 0.035, K: 0.065, Init: "noise"},
	"worms":   {F: 0.058, K: 0.065, Init: "noise"},
	"waves":   {F: 0.014, K: 0.045, Init: "clump"},
}

// GetPreset returns a full config for the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.F = p.F
	cfg.K = p.K
	if p.Init != "" {
		cfg.Init = p.Init
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
