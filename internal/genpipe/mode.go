// Package genpipe defines the contract between the harness and the code
// generation pipeline: the generation modes, the per-run configuration, the
// input document, and the narrow Pipeline capability the harness drives.
//
// The pipeline itself is opaque to this package. The harness only marshals
// inputs in, routes diagnostics to a collector, and attributes failures to
// the (document, mode) pair that produced them.
package genpipe

import "fmt"

// Mode is one of the fixed generation targets. Each mode produces exactly
// one artifact per run of the pipeline.
type Mode string

const (
	ModeTypes  Mode = "types"
	ModeClient Mode = "client"
	ModeServer Mode = "server"
)

// AllModes returns every supported mode in canonical order.
func AllModes() []Mode {
	return []Mode{ModeTypes, ModeClient, ModeServer}
}

// ParseMode validates a mode name from user input.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTypes, ModeClient, ModeServer:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown generation mode %q: must be one of types, client, server", s)
	}
}

// ArtifactName returns the base file name the pipeline produces for this
// mode. The golden reference tree uses the same names.
func (m Mode) ArtifactName() string {
	return string(m) + ".go"
}

// AccessLevel controls the visibility of generated declarations.
type AccessLevel string

const (
	AccessPublic   AccessLevel = "public"
	AccessInternal AccessLevel = "internal"
)

// NamingStrategy selects how schema names are mapped to Go identifiers.
type NamingStrategy string

const (
	// NamingIdiomatic converts schema names to exported Go style
	// (snake_case and kebab-case become CamelCase).
	NamingIdiomatic NamingStrategy = "idiomatic"

	// NamingVerbatim preserves schema names, sanitized only as far as Go
	// identifier rules require.
	NamingVerbatim NamingStrategy = "verbatim"
)

// Config captures the pipeline options for one run. It is constructed once
// per test scenario and never mutated afterwards.
type Config struct {
	Mode          Mode
	Access        AccessLevel
	Naming        NamingStrategy
	NameOverrides map[string]string
	FeatureFlags  []string
	ExtraImports  []string

	// PackageName names the generated package. Empty defaults to the
	// pipeline's choice.
	PackageName string
}

// WithMode returns a copy of the configuration bound to the given mode.
// The receiver is left untouched; scenario configurations are value objects.
func (c Config) WithMode(m Mode) Config {
	c.Mode = m
	return c
}

// DefaultConfig returns the configuration the test suites use unless a
// scenario overrides it.
func DefaultConfig() Config {
	return Config{
		Access: AccessPublic,
		Naming: NamingIdiomatic,
	}
}
