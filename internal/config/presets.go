package config

// Presets are named, ready-to-run scenario variants grouped by prototype
// name.
var Presets = map[string]map[string]*Config{
	"single-right": {
		"default": {
			Prototype: "single-right", Scale: 1.0, Surface: "bouncy", FPS: DefaultFPS,
			TargetAltitude: 0, PretenstTarget: 0.1,
			PretenseDuration: 2.0, PretenseRampSteps: 2000,
			ConvergeInitialDrag: 0.01, ConvergeDuration: 3.0,
			FallDuration: 4.0, SettleInitialDrag: 1e-4, SettleDuration: 6.0,
		},
		"slack": {
			Prototype: "single-right", Scale: 1.0, Surface: "bouncy", FPS: DefaultFPS,
			TargetAltitude: 0, PretenstTarget: 0.03,
			PretenseDuration: 1.0, PretenseRampSteps: 1000,
			ConvergeInitialDrag: 0.01, ConvergeDuration: 2.0,
			FallDuration: 4.0, SettleInitialDrag: 1e-4, SettleDuration: 6.0,
		},
		"taut": {
			Prototype: "single-right", Scale: 1.0, Surface: "bouncy", FPS: DefaultFPS,
			TargetAltitude: 0, PretenstTarget: 0.25,
			PretenseDuration: 3.0, PretenseRampSteps: 3000,
			ConvergeInitialDrag: 0.01, ConvergeDuration: 4.0,
			FallDuration: 4.0, SettleInitialDrag: 1e-4, SettleDuration: 6.0,
		},
		"frozen-landing": {
			Prototype: "single-right", Scale: 1.0, Surface: "frozen", FPS: DefaultFPS,
			TargetAltitude: 0, PretenstTarget: 0.1,
			PretenseDuration: 2.0, PretenseRampSteps: 2000,
			ConvergeInitialDrag: 0.01, ConvergeDuration: 3.0,
			FallDuration: 4.0, SettleInitialDrag: 1e-4, SettleDuration: 6.0,
		},
	},
}

// GetPreset returns the named preset for prototype, or nil if either the
// prototype or the preset name is unknown.
func GetPreset(prototype, preset string) *Config {
	variants, ok := Presets[prototype]
	if !ok {
		return nil
	}
	cfg, ok := variants[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names registered for prototype, or nil
// if the prototype has none.
func ListPresets(prototype string) []string {
	variants, ok := Presets[prototype]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	return names
}
