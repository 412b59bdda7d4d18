package config

import (
	"fmt"
	"strings"
)

// APIConfig defines settings for the HTTP API server.
type APIConfig struct {
	// Address is the listen address, e.g. ":8080".
	Address string `json:"address"`
	// ReadTimeoutSeconds bounds how long a request body read may take.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
	// WriteTimeoutSeconds bounds how long a response write may take.
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.WriteTimeoutSeconds <= 0 {
		c.WriteTimeoutSeconds = 15
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if !strings.Contains(c.Address, ":") {
		return fmt.Errorf("api address %q must contain a port", c.Address)
	}
	return nil
}
