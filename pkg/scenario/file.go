package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileFormat is the TOML layout of a custom scenario file:
//
//	[[scenario]]
//	id = "bank"
//	label = "은행"
//	role = "a bank teller"
//	situations = ["...", "..."]
type fileFormat struct {
	Scenarios []Definition `toml:"scenario"`
}

// ParseDefinitions decodes custom scenario definitions from TOML.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var f fileFormat
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scenarios TOML: %w", err)
	}

	seen := make(map[string]bool, len(f.Scenarios))
	for i, d := range f.Scenarios {
		if d.ID == "" {
			return nil, fmt.Errorf("scenario %d: id is required", i)
		}
		if d.ID == FreeID {
			return nil, fmt.Errorf("scenario %q: id is reserved", d.ID)
		}
		if d.Role == "" {
			return nil, fmt.Errorf("scenario %q: role is required", d.ID)
		}
		if len(d.Situations) == 0 {
			return nil, fmt.Errorf("scenario %q: at least one situation is required", d.ID)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("scenario %q: duplicate id", d.ID)
		}
		seen[d.ID] = true

		if f.Scenarios[i].Label == "" {
			f.Scenarios[i].Label = d.ID
		}
	}

	return f.Scenarios, nil
}

// LoadFile returns a new catalog holding the built-in scenarios followed by
// the ones defined in the TOML file at path. A custom scenario may replace a
// built-in roleplay with the same id. A missing file yields the default
// catalog; an empty path does too.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}

	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, err
	}

	scenarios := Builtin()
	for _, d := range defs {
		scenarios = append(scenarios, d.Scenario())
	}
	return NewCatalog(scenarios...), nil
}
