package noise

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Preset parameter sets for superconducting hardware generations. "current"
// reflects published error rates and T1 of present devices; the "future"
// variants scale error rates and/or T1 by 10x steps.
var presets = map[string]Params{
	"current": {
		SingleGateError: 0.001,
		TwoGateError:    0.01,
		T1Micros:        100,
		SingleGateNanos: 100,
		TwoGateNanos:    300,
	},
	"future": {
		SingleGateError: 0.0001,
		TwoGateError:    0.001,
		T1Micros:        1000,
		SingleGateNanos: 100,
		TwoGateNanos:    300,
	},
	"future-t1": {
		SingleGateError: 0.0001,
		TwoGateError:    0.001,
		T1Micros:        10000,
		SingleGateNanos: 100,
		TwoGateNanos:    300,
	},
	"future-gates": {
		SingleGateError: 0.00001,
		TwoGateError:    0.0001,
		T1Micros:        1000,
		SingleGateNanos: 100,
		TwoGateNanos:    300,
	},
	"future-t1-gates": {
		SingleGateError: 0.00001,
		TwoGateError:    0.0001,
		T1Micros:        10000,
		SingleGateNanos: 100,
		TwoGateNanos:    300,
	},
}

// PresetParams returns the named preset parameter set.
func PresetParams(name string) (Params, error) {
	p, ok := presets[name]
	if !ok {
		names := make([]string, 0, len(presets))
		for n := range presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return Params{}, fmt.Errorf("unknown noise preset %q (have %v)", name, names)
	}
	return p, nil
}

// LoadParams reads noise parameters from a YAML file. Parsing is strict:
// unknown fields are errors so that typos surface instead of silently
// falling back to zero values.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read noise config: %w", err)
	}
	var p Params
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return Params{}, fmt.Errorf("failed to parse noise config %s: %w", path, err)
	}
	return p, nil
}
