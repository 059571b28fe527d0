package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports credentials or settings that were absent at
// facade construction. It is fatal: no facade is returned alongside one.
type ConfigurationError struct {
	Missing []string // Names of the absent fields
	Cause   error    // Underlying adapter failure, if any
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration invalid: missing %s", strings.Join(e.Missing, ", "))
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause.Error())
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
