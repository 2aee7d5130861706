package snmpflow

import (
	"github.com/ghalamif/SNMPFlow/internal/app/pipeline"
	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// Point is one timestamped measurement as handed to sinks.
type Point = domain.Point

// Device is a polled target.
type Device = domain.Device

// Collector scrapes one device per call. The default walks the interface
// table over SNMP.
type Collector = ports.Collector

// Dialer opens SNMP sessions for the default collector.
type Dialer = ports.Dialer

// Session is an open SNMP session.
type Session = ports.Session

// Variable is one value returned by a Session.
type Variable = ports.Variable

// PointSource adds points to every cycle that do not belong to a device.
type PointSource = ports.PointSource

// Sink receives every point of a cycle in one call.
type Sink = ports.Sink

// Spool keeps points whose write failed until the next successful write.
type Spool = ports.Spool

// SpoolStats exposes spool positions and size.
type SpoolStats = ports.SpoolStats

// SpoolEntryID identifies a spooled point.
type SpoolEntryID = ports.SpoolEntryID

// Observability receives structured log events and metric updates.
type Observability = ports.Observability

// Field is a structured log field.
type Field = ports.Field

// CycleReport summarises one scrape cycle.
type CycleReport = pipeline.CycleReport
