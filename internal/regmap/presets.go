package regmap

import "sort"

// Preset is one of the datasheet's recommended AGC configurations. Release
// and hold times are stored in engineering units and converted to register
// codes with the same floor rule as the manual setters; Limiter is the full
// register 6 byte.
type Preset struct {
	Ratio     byte // compression ratio code for register 7
	Attack    byte // attack time code for register 2
	ReleaseMS int  // release time, milliseconds
	HoldMS    int  // hold time, milliseconds (0 = hold disabled)
	Gain      byte // fixed gain code for register 5
	Limiter   byte // register 6 byte (limiter level + noise gate threshold)
}

// Presets maps preset names to the datasheet's recommended AGC settings
// for each program material type.
var Presets = map[string]Preset{
	"pop":       {Ratio: 0b10, Attack: 2, ReleaseMS: 3288, HoldMS: 137, Gain: 6, Limiter: 0x3A},
	"classical": {Ratio: 0b01, Attack: 2, ReleaseMS: 1644, HoldMS: 0, Gain: 6, Limiter: 0x39},
	"jazz":      {Ratio: 0b01, Attack: 4, ReleaseMS: 4932, HoldMS: 0, Gain: 6, Limiter: 0x3A},
	"rap":       {Ratio: 0b11, Attack: 2, ReleaseMS: 3288, HoldMS: 0, Gain: 6, Limiter: 0x3C},
	"rock":      {Ratio: 0b01, Attack: 3, ReleaseMS: 4932, HoldMS: 0, Gain: 6, Limiter: 0x3B},
	"voice":     {Ratio: 0b10, Attack: 2, ReleaseMS: 1644, HoldMS: 137, Gain: 6, Limiter: 0x36},
}

// PresetNames returns the available preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
