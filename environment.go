package spoon

import (
	"fmt"
	"slices"
)

// Environment holds the compile-time settings shared by every compiler and
// parser created for one set of templates. It is read-only once built and
// may be shared between goroutines.
type Environment struct {
	config    *Config
	modifiers map[string]struct{}
}

// NewEnvironment builds an environment from a loaded configuration.
func NewEnvironment(config *Config) (*Environment, error) {
	if config == nil {
		return nil, ErrNilConfig
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	env := &Environment{
		config:    config,
		modifiers: make(map[string]struct{}, len(config.Modifiers)),
	}
	for _, name := range config.Modifiers {
		env.modifiers[name] = struct{}{}
	}

	return env, nil
}

// DefaultEnvironment returns an environment built from the default configuration.
func DefaultEnvironment() *Environment {
	env, err := NewEnvironment(getDefaultConfig())
	if err != nil {
		// the default configuration always validates
		panic(err)
	}

	return env
}

// Config returns the configuration the environment was built from.
func (e *Environment) Config() *Config {
	return e.config
}

// Strict reports whether unknown modifiers are rejected at compile time.
func (e *Environment) Strict() bool {
	return e.config.Strict
}

// HasModifier reports whether name is a registered modifier.
func (e *Environment) HasModifier(name string) bool {
	_, ok := e.modifiers[name]
	return ok
}

// Modifiers returns the registered modifier names in sorted order.
func (e *Environment) Modifiers() []string {
	names := make([]string, 0, len(e.modifiers))
	for name := range e.modifiers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
