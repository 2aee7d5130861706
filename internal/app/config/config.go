package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/ghalamif/SNMPFlow/internal/adapters/influx"
	"github.com/ghalamif/SNMPFlow/internal/adapters/observability"
	"github.com/ghalamif/SNMPFlow/internal/adapters/sink"
	"github.com/ghalamif/SNMPFlow/internal/adapters/snmp"
	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
	"gopkg.in/yaml.v3"
)

const (
	EnvPath     = "SNMP_TO_INFLUX_CONFIG_FILE"
	DefaultPath = "./scraper.yaml"
)

// DefaultMaxBatchPoints caps a single sink write, including spool replay.
const DefaultMaxBatchPoints = 5000

type Config struct {
	DefaultCommunity string                  `yaml:"default_community"`
	Devices          []domain.Device         `yaml:"devices"`
	InfluxDB         influx.Config           `yaml:"influxdb"`
	Timescale        sink.TimescaleConfig    `yaml:"timescale"`
	SNMP             snmp.Config             `yaml:"snmp"`
	Policy           ports.Policy            `yaml:"policy"`
	Spool            SpoolConfig             `yaml:"spool"`
	Metrics          MetricsConfig           `yaml:"metrics"`
	Log              observability.LogConfig `yaml:"log"`
	SelfMonitor      bool                    `yaml:"self_monitor"`
}

// SpoolConfig selects the retry spool: on disk when Dir is set, in memory when
// Memory is true, otherwise failed batches are discarded.
type SpoolConfig struct {
	Dir    string `yaml:"dir"`
	Memory bool   `yaml:"memory"`
}

func (c SpoolConfig) Enabled() bool { return c.Dir != "" || c.Memory }

// MetricsConfig enables the /metrics and /healthz listener when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Path returns the configuration file location from the environment, or the
// default next to the binary's working directory.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize fills defaults and validates. Configs built in code go through it
// the same way as loaded files; calling it twice is harmless.
func (c *Config) Normalize() error {
	c.applyDefaults()
	return c.validate()
}

func (c *Config) applyDefaults() {
	for i := range c.Devices {
		if c.Devices[i].Community == "" {
			c.Devices[i].Community = c.DefaultCommunity
		}
	}
	if c.Policy.Interval <= 0 {
		c.Policy.Interval = 60 * time.Second
	}
	if c.Policy.MaxSpoolBytes == 0 {
		c.Policy.MaxSpoolBytes = 64 << 20
	}
	if c.Policy.MaxBatchPoints == 0 {
		c.Policy.MaxBatchPoints = DefaultMaxBatchPoints
	}

	c.SNMP.ApplyDefaults()
	c.InfluxDB.ApplyDefaults()
	c.Timescale.ApplyDefaults()
	c.Log.ApplyDefaults()
}

func (c *Config) validate() error {
	if len(c.Devices) == 0 {
		return errors.New("devices: at least one device is required")
	}
	for i, d := range c.Devices {
		if d.Hostname == "" {
			return fmt.Errorf("devices[%d]: hostname is required", i)
		}
		if _, err := netip.ParseAddr(d.IP); err != nil {
			return fmt.Errorf("devices[%d] %s: invalid ip %q", i, d.Hostname, d.IP)
		}
		if d.Community == "" && d.Username == "" {
			return fmt.Errorf("devices[%d] %s: community or username is required", i, d.Hostname)
		}
	}
	if !c.InfluxDB.Enabled() && !c.Timescale.Enabled() {
		return errors.New("no writer configured: set influxdb or timescale")
	}
	if c.InfluxDB.Enabled() {
		if err := c.InfluxDB.Validate(); err != nil {
			return fmt.Errorf("influxdb config: %w", err)
		}
	}
	if err := c.SNMP.Validate(); err != nil {
		return fmt.Errorf("snmp config: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	if c.Policy.MaxSpoolBytes < 0 {
		return errors.New("policy.max_spool_bytes must not be negative")
	}
	if c.Policy.MaxBatchPoints < 0 {
		return errors.New("policy.max_batch_points must not be negative")
	}
	return nil
}
