package snmp

import (
	"errors"
	"time"
)

// DefaultRetries is used when retries is left unset; an explicit 0 disables
// retransmission.
const DefaultRetries = 1

// Config holds the session parameters shared by every device.
type Config struct {
	Port           uint16        `yaml:"port"`
	Timeout        time.Duration `yaml:"timeout"`
	Retries        *int          `yaml:"retries"`
	MaxRepetitions uint32        `yaml:"max_repetitions"`
}

func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 161
	}
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Second
	}
	if c.Retries == nil {
		n := DefaultRetries
		c.Retries = &n
	}
	if c.MaxRepetitions == 0 {
		c.MaxRepetitions = 10
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Retries != nil && *c.Retries < 0 {
		return errors.New("retries must not be negative")
	}
	if c.MaxRepetitions > 255 {
		return errors.New("max_repetitions must be <= 255")
	}
	return nil
}

// RetryCount is the number of retransmissions handed to the client.
func (c Config) RetryCount() int {
	if c.Retries == nil {
		return DefaultRetries
	}
	return *c.Retries
}
