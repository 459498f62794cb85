package config

import (
	"fmt"
	"sort"
	"strings"
)

var Presets = map[string]map[string]*Config{
	"ballistic": {
		"shell": {
			Model: "drag", Mode: "corrected", Dt: 0.01, Duration: 120.0, Gravity: 9.81,
			InitState: InitStateConfig{LaunchSpeed: 800, LaunchAngle: 45, Mass: 40},
			Drag:      DragConfig{Cd: 0.3, Area: 0.018, MachCurve: true},
		},
		"lob": {
			Model: "inert", Mode: "corrected", Dt: 0.01, Duration: 20.0, Gravity: 9.81,
			InitState: InitStateConfig{LaunchSpeed: 60, LaunchAngle: 60, Mass: 1},
		},
		"drop": {
			Model: "drag", Mode: "corrected", Dt: 0.01, Duration: 30.0, Gravity: 9.81,
			InitState: InitStateConfig{Y: 1000, Mass: 5},
			Drag:      DragConfig{Cd: 0.47, Area: 0.05},
		},
	},
	"rocket": {
		"sounding": {
			Model: "rocket", Mode: "corrected", Dt: 0.01, Duration: 120.0, Gravity: 9.81,
			InitState: InitStateConfig{Mass: 25, Grounded: true},
			Drag:      DragConfig{Cd: 0.5, Area: 0.008, MachCurve: true},
			Thrust: ThrustConfig{
				LaunchAngle: 88,
				Stages:      []StageConfig{{Thrust: 1500, BurnTime: 6, BurnRate: 1.5}},
			},
		},
		"two_stage": {
			Model: "rocket", Mode: "corrected", Dt: 0.01, Duration: 300.0, Gravity: 9.81,
			InitState: InitStateConfig{Mass: 60, Grounded: true},
			Drag:      DragConfig{Cd: 0.45, Area: 0.012, MachCurve: true},
			Thrust: ThrustConfig{
				LaunchAngle: 80,
				Stages: []StageConfig{
					{Thrust: 3000, BurnTime: 5, BurnRate: 3, Jettison: 8},
					{Thrust: 900, BurnTime: 8, BurnRate: 0.8},
				},
			},
		},
	},
	"legacy": {
		"reference": {
			Model: "inert", Mode: "legacy", Dt: 0.01, Duration: 100.0, Gravity: 9.81,
			InitState: InitStateConfig{VX: 500, VY: 500},
		},
		"drop": {
			Model: "inert", Mode: "legacy", Dt: 1, Duration: 5, Gravity: 9.81,
			InitState: InitStateConfig{Y: 0.5, VY: -100},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// Lookup resolves a "group/name" preset reference.
func Lookup(ref string) (*Config, error) {
	group, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("preset %q: want group/name", ref)
	}
	cfg := GetPreset(group, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", ref, ListPresets(group))
	}
	return cfg, nil
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
