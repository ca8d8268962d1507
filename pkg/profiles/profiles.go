// Package profiles loads named naming configurations from a YAML file, so
// frequently used save targets don't have to be respecified flag by flag.
package profiles

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bettersave/pkg/naming"
)

// DefaultPattern is used when a profile does not specify a pattern.
const DefaultPattern = "{base}_{counter}"

// ErrUnknownProfile indicates a profile name not present in the file.
var ErrUnknownProfile = errors.New("unknown profile")

// Profile is one named naming configuration.
type Profile struct {
	Pattern        string `yaml:"pattern"`
	Base           string `yaml:"base"`
	Extension      string `yaml:"extension"`
	CounterStart   int    `yaml:"counter_start"`
	CounterPadding int    `yaml:"counter_padding"`
}

// File is a parsed profiles file.
type File struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Load reads and parses a profiles file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}

	return &file, nil
}

// Resolve returns the naming config for the named profile, applying the
// default pattern and validating the result.
func (f *File) Resolve(name string) (naming.Config, error) {
	profile, ok := f.Profiles[name]
	if !ok {
		return naming.Config{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}

	cfg := naming.Config{
		Pattern:        profile.Pattern,
		Base:           profile.Base,
		Extension:      profile.Extension,
		CounterStart:   profile.CounterStart,
		CounterPadding: profile.CounterPadding,
	}

	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}

	if err := cfg.Validate(); err != nil {
		return naming.Config{}, fmt.Errorf("profile %s: %w", name, err)
	}

	return cfg, nil
}

// Names returns the profile names present in the file, in no particular order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}

	return names
}
