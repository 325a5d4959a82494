package config

import "sort"

// Presets are complete binaries that can be solved without a config file.
// textbook is the worked example the defaults come from.
var Presets = map[string]*Config{
	"textbook": {
		Orbit:      OrbitConfig{SemiMajorArcsec: 4.5, SemiMinorArcsec: 3.4, PartialOrbitYears: 11},
		Photometry: PhotometryConfig{ApparentMag1: 3.9, ApparentMag2: 5.3},
	},
	"bright": {
		Orbit:      OrbitConfig{SemiMajorArcsec: 4.5, SemiMinorArcsec: 3.4, PartialOrbitYears: 11},
		Photometry: PhotometryConfig{ApparentMag1: -1.0, ApparentMag2: 0.5},
	},
	"distant": {
		Orbit:      OrbitConfig{SemiMajorArcsec: 0.5, SemiMinorArcsec: 0.3, PartialOrbitYears: 2},
		Photometry: PhotometryConfig{ApparentMag1: 8, ApparentMag2: 9},
	},
}

// GetPreset returns a full config for the named preset, with solver and log
// settings taken from the defaults, or nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Orbit = p.Orbit
	cfg.Photometry = p.Photometry
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
