package influx

import (
	"errors"
	"strings"
	"time"
)

// Config describes an InfluxDB 1.x write target.
type Config struct {
	URI                string        `yaml:"uri"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Database           string        `yaml:"database"`
	RetentionPolicy    string        `yaml:"retention_policy"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Timeout            time.Duration `yaml:"timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// Enabled reports whether any InfluxDB setting was provided.
func (c *Config) Enabled() bool {
	return c.URI != "" || c.Database != ""
}

func (c *Config) Validate() error {
	if c.URI == "" {
		return errors.New("uri is required")
	}
	if c.Database == "" {
		return errors.New("database is required")
	}
	return nil
}

// Addr returns the HTTP endpoint. A bare host is reached over TLS.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.URI, "http://") || strings.HasPrefix(c.URI, "https://") {
		return strings.TrimRight(c.URI, "/")
	}
	return "https://" + strings.TrimRight(c.URI, "/")
}
