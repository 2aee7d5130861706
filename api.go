package snmpflow

import (
	base "github.com/ghalamif/SNMPFlow/pkg/snmpflow"
)

// Re-exported errors for convenience.
var ErrChannelSinkClosed = base.ErrChannelSinkClosed

// Type aliases so consumers can import github.com/ghalamif/SNMPFlow directly.
type (
	Config          = base.Config
	Policy          = base.Policy
	InfluxConfig    = base.InfluxConfig
	TimescaleConfig = base.TimescaleConfig
	SNMPConfig      = base.SNMPConfig
	SpoolConfig     = base.SpoolConfig
	MetricsConfig   = base.MetricsConfig
	LogConfig       = base.LogConfig
	Flow            = base.Flow
	FlowOption      = base.FlowOption
	StreamInOption  = base.StreamInOption
	StreamOutOption = base.StreamOutOption
	Runtime         = base.Runtime
	RuntimeOption   = base.RuntimeOption
	CycleReport     = base.CycleReport
	Point           = base.Point
	Device          = base.Device
	PointBatchFunc  = base.PointBatchFunc
	Collector       = base.Collector
	Dialer          = base.Dialer
	Session         = base.Session
	Variable        = base.Variable
	PointSource     = base.PointSource
	Sink            = base.Sink
	Spool           = base.Spool
	SpoolStats      = base.SpoolStats
	SpoolEntryID    = base.SpoolEntryID
	Observability   = base.Observability
	Field           = base.Field
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func ConfigPath() string {
	return base.ConfigPath()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInCollector(col Collector) StreamInOption {
	return base.StreamInCollector(col)
}

func StreamInDialer(d Dialer) StreamInOption {
	return base.StreamInDialer(d)
}

func StreamInSource(src PointSource) StreamInOption {
	return base.StreamInSource(src)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutSpool(s Spool) StreamOutOption {
	return base.StreamOutSpool(s)
}

func StreamOutCallback(name string, fn PointBatchFunc) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithCollector(col Collector) RuntimeOption {
	return base.WithCollector(col)
}

func WithDialer(d Dialer) RuntimeOption {
	return base.WithDialer(d)
}

func WithSink(s Sink) RuntimeOption {
	return base.WithSink(s)
}

func WithSpool(s Spool) RuntimeOption {
	return base.WithSpool(s)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithPointSource(src PointSource) RuntimeOption {
	return base.WithPointSource(src)
}

// Sink adapters.
func NewCallbackSink(name string, fn PointBatchFunc) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan []Point, func()) {
	return base.NewChannelSink(name, buffer)
}
