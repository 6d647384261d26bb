package nn

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to one of these.
var (
	ErrConfiguration = errors.New("nn: invalid configuration")
	ErrNumerical     = errors.New("nn: numerical error")
	ErrInputSize     = errors.New("nn: input size mismatch")
)

// ConfigError reports a shape or parameter mismatch detected while building a layer.
type ConfigError struct {
	Layer   Kind
	Details string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("nn: %s: %s", e.Layer, e.Details)
}

// Unwrap returns ErrConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// NumericalError reports a per-channel parameter that would make Compute
// divide by zero or produce non-finite values.
type NumericalError struct {
	Layer   Kind
	Channel int
	Value   float64
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("nn: %s: channel %d: unusable value %g", e.Layer, e.Channel, e.Value)
}

// Unwrap returns ErrNumerical.
func (e *NumericalError) Unwrap() error {
	return ErrNumerical
}

func configErrorf(kind Kind, format string, args ...any) error {
	return &ConfigError{Layer: kind, Details: fmt.Sprintf(format, args...)}
}
