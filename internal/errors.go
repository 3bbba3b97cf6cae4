package internal

import "errors"

// ConfigError reports a setup problem the user has to fix before anything
// runs: an unknown style, a missing credential, no words left to process.
type ConfigError struct {
	Msg  string
	Hint string // Remediation shown under the message
}

func (e *ConfigError) Error() string {
	if e.Hint == "" {
		return e.Msg
	}
	return e.Msg + "\n  hint: " + e.Hint
}

// NewConfigError is a shorthand for &ConfigError{Msg: msg, Hint: hint}
func NewConfigError(msg, hint string) *ConfigError {
	return &ConfigError{Msg: msg, Hint: hint}
}

// IsConfigError reports whether err wraps a *ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
