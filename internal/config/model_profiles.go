package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultModelProfilesFile = "config/model_profiles.yml"

// ModelProfile describes one named model configuration that can be selected
// at startup instead of the flat env values.
type ModelProfile struct {
	Name        string   `yaml:"name"`
	Model       string   `yaml:"model"`
	Temperature *float32 `yaml:"temperature,omitempty"`
	MaxTokens   int      `yaml:"max_tokens,omitempty"`
}

// ProfileBootstrapFile holds all profiles parsed from the profiles file.
type ProfileBootstrapFile struct {
	profiles map[string]*ModelProfile
}

// Profile returns the profile with the given name, or nil.
func (f *ProfileBootstrapFile) Profile(name string) *ModelProfile {
	if f == nil {
		return nil
	}
	key := strings.TrimSpace(name)
	if key == "" {
		key = "default"
	}
	return f.profiles[key]
}

// Names returns the defined profile names in no particular order.
func (f *ProfileBootstrapFile) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.profiles))
	for name := range f.profiles {
		names = append(names, name)
	}
	return names
}

type modelProfilesDocument struct {
	Profiles []ModelProfile `yaml:"profiles"`
}

// LoadModelProfiles parses the yaml file at the provided path.
func LoadModelProfiles(path string) (*ProfileBootstrapFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model profiles path is empty")
	}

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read model profiles %q: %w", cleanPath, err)
	}

	var doc modelProfilesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model profiles %q: %w", cleanPath, err)
	}

	if len(doc.Profiles) == 0 {
		return nil, fmt.Errorf("model profiles %q has no profiles defined", cleanPath)
	}

	result := &ProfileBootstrapFile{profiles: make(map[string]*ModelProfile)}
	for i := range doc.Profiles {
		profile := doc.Profiles[i]
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			return nil, fmt.Errorf("model profiles %q: profile %d has no name", cleanPath, i)
		}
		if _, exists := result.profiles[name]; exists {
			return nil, fmt.Errorf("model profiles %q: duplicate profile %q", cleanPath, name)
		}
		result.profiles[name] = &profile
	}

	return result, nil
}
