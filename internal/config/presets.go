package config

// Presets are named sweep configurations per model.
var Presets = map[string]map[string]*Config{
	"linear2d": {
		"quick": {
			Model: "linear2d", Optimizer: "stlsq", MaxIter: 10, Normalize: true,
			Dt: 0.01, Duration: 10.0,
			Basis: BasisConfig{Degree: 2, Harmonics: 1},
			Sweep: SweepConfig{Min: 0.01, Max: 1.0, Steps: 10},
		},
		"fine": {
			Model: "linear2d", Optimizer: "stlsq", MaxIter: 20, Normalize: true,
			Dt: 0.005, Duration: 20.0,
			Basis: BasisConfig{Degree: 3, Harmonics: 1},
			Sweep: SweepConfig{Min: 0.005, Max: 1.0, Steps: 40},
		},
	},
	"lorenz": {
		"standard": {
			Model: "lorenz", Optimizer: "stlsq", MaxIter: 10, Normalize: true,
			Dt: 0.001, Duration: 10.0,
			Basis: BasisConfig{Degree: 2, Harmonics: 1},
			Sweep: SweepConfig{Min: 0.05, Max: 2.0, Steps: 30},
		},
		"noisy": {
			Model: "lorenz", Optimizer: "stlsq", MaxIter: 20, Denoise: true, Normalize: true,
			Dt: 0.001, Duration: 10.0,
			Basis: BasisConfig{Degree: 2, Harmonics: 1},
			Sweep: SweepConfig{Min: 0.05, Max: 2.0, Steps: 30},
		},
	},
	"vanderpol": {
		"standard": {
			Model: "vanderpol", Optimizer: "stlsq", MaxIter: 15, Normalize: true,
			Dt: 0.005, Duration: 20.0,
			Basis: BasisConfig{Degree: 3, Harmonics: 1},
			Sweep: SweepConfig{Min: 0.02, Max: 1.5, Steps: 30},
		},
	},
}

// GetPreset returns the named preset for a model, or nil when absent.
func GetPreset(model, name string) *Config {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	return group[name]
}

// ListPresets returns the preset names for a model, or nil when absent.
func ListPresets(model string) []string {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
