// Package config holds the engine options shared by the expression catalog
// and the tapes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options controls recording, validation, and evaluation behavior.
//
// The zero value is not useful; start from Default().
type Options struct {
	// CheckArguments enables domain validation of operation arguments
	// (log of a non-positive value, division by zero, ...). When false,
	// operations follow plain IEEE semantics and produce NaN/Inf silently.
	CheckArguments bool `yaml:"check_arguments"`

	// CheckEmptyStatements skips recording statements whose argument list
	// collapses to nothing after Jacobian filtering; the assignment then
	// degenerates to a passive store.
	CheckEmptyStatements bool `yaml:"check_empty_statements"`

	// SkipZeroAdjoints skips statements whose output adjoint is exactly
	// zero during Evaluate. Exact only for finite Jacobians.
	SkipZeroAdjoints bool `yaml:"skip_zero_adjoints"`

	// IgnoreInvalidJacobians drops NaN/Inf Jacobian entries at record
	// time instead of storing them.
	IgnoreInvalidJacobians bool `yaml:"ignore_invalid_jacobians"`

	// CheckIdentifierOverflow makes identifier-space exhaustion a fatal
	// error instead of undefined behavior.
	CheckIdentifierOverflow bool `yaml:"check_identifier_overflow"`

	// CopyOptimization aliases the source identifier on active-to-active
	// assignment instead of recording an identity statement. Must be off
	// for index managers that reuse freed identifiers.
	CopyOptimization bool `yaml:"copy_optimization"`

	// KeepAdjoints leaves each statement's output adjoint in place during
	// Evaluate instead of zeroing it after accumulation. Only safe with
	// the linear index manager.
	KeepAdjoints bool `yaml:"keep_adjoints"`

	// ChunkSize is the number of elements per storage chunk.
	ChunkSize int `yaml:"chunk_size"`
}

// Default returns the standard configuration.
func Default() Options {
	return Options{
		CheckArguments:          false,
		CheckEmptyStatements:    true,
		SkipZeroAdjoints:        true,
		IgnoreInvalidJacobians:  false,
		CheckIdentifierOverflow: true,
		CopyOptimization:        true,
		KeepAdjoints:            false,
		ChunkSize:               2048,
	}
}

// FromYAML parses options from YAML, starting from Default() so absent
// keys keep their defaults.
func FromYAML(data []byte) (Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("config: parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Load reads options from a YAML file.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return FromYAML(data)
}

// Validate checks internal consistency.
func (o Options) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", o.ChunkSize)
	}
	return nil
}
