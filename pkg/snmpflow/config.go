package snmpflow

import (
	"github.com/ghalamif/SNMPFlow/internal/adapters/influx"
	"github.com/ghalamif/SNMPFlow/internal/adapters/observability"
	"github.com/ghalamif/SNMPFlow/internal/adapters/sink"
	"github.com/ghalamif/SNMPFlow/internal/adapters/snmp"
	"github.com/ghalamif/SNMPFlow/internal/app/config"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// Config re-exports the root configuration struct so embedding programs can
// build or adjust it in code.
type Config = config.Config

type (
	// Policy controls the cycle interval and spool bound.
	Policy = ports.Policy
	// InfluxConfig configures the InfluxDB 1.x writer.
	InfluxConfig = influx.Config
	// TimescaleConfig configures the optional Postgres/Timescale writer.
	TimescaleConfig = sink.TimescaleConfig
	// SNMPConfig holds session defaults shared by all devices.
	SNMPConfig    = snmp.Config
	SpoolConfig   = config.SpoolConfig
	MetricsConfig = config.MetricsConfig
	LogConfig     = observability.LogConfig
)

// LoadConfig reads, defaults and validates a YAML file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// ConfigPath returns $SNMP_TO_INFLUX_CONFIG_FILE or ./scraper.yaml.
func ConfigPath() string {
	return config.Path()
}
