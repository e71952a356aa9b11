package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/calder/oasgen/internal/genpipe"
)

// ScenarioConfig is the YAML-friendly subset of pipeline options a
// scenario may override. Anything unset falls back to the suite default.
type ScenarioConfig struct {
	Access        string            `yaml:"access,omitempty"`
	Naming        string            `yaml:"naming,omitempty"`
	Package       string            `yaml:"package,omitempty"`
	NameOverrides map[string]string `yaml:"name_overrides,omitempty"`
	FeatureFlags  []string          `yaml:"feature_flags,omitempty"`
	ExtraImports  []string          `yaml:"extra_imports,omitempty"`
}

// resolve builds the immutable pipeline configuration for the scenario.
func (c *ScenarioConfig) resolve() genpipe.Config {
	cfg := genpipe.DefaultConfig()
	if c == nil {
		return cfg
	}
	if c.Access != "" {
		cfg.Access = genpipe.AccessLevel(c.Access)
	}
	if c.Naming != "" {
		cfg.Naming = genpipe.NamingStrategy(c.Naming)
	}
	cfg.PackageName = c.Package
	cfg.NameOverrides = c.NameOverrides
	cfg.FeatureFlags = c.FeatureFlags
	cfg.ExtraImports = c.ExtraImports
	return cfg
}

// LoadReferenceProject reads and validates a reference project YAML file.
// Unknown fields are rejected to catch typos before a corpus run.
func LoadReferenceProject(path string) (*ReferenceProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var project ReferenceProject
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&project); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateReferenceProject(&project); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	return &project, nil
}

func validateReferenceProject(p *ReferenceProject) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Document == "" {
		return fmt.Errorf("document is required")
	}
	if _, err := os.Stat(p.Document); os.IsNotExist(err) {
		return fmt.Errorf("document not found: %s", p.Document)
	}
	return validateModes(p.Modes)
}

// LoadCompatScenario reads and validates a compatibility scenario YAML
// file. Unknown fields are rejected.
func LoadCompatScenario(path string) (*CompatScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario CompatScenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateCompatScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateCompatScenario(s *CompatScenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	return validateModes(s.Modes)
}

func validateModes(modes []genpipe.Mode) error {
	for i, m := range modes {
		if _, err := genpipe.ParseMode(string(m)); err != nil {
			return fmt.Errorf("modes[%d]: %w", i, err)
		}
	}
	return nil
}
