package config

import (
	"errors"
	"fmt"
)

var outputModes = map[string]bool{"": true, "auto": true, "text": true, "markdown": true, "json": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Settings.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !outputModes[c.OutputFormat] {
		errs = append(errs, fmt.Errorf("unknown output format %q\nHint: use auto, text, markdown or json", c.OutputFormat))
	}
	return errors.Join(errs...)
}
