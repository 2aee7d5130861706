package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// TimescaleConfig points the optional second writer at a Postgres/Timescale
// table. The table needs a unique key on (measurement, tags, ts) so replayed
// rows are ignored:
//
//	CREATE TABLE snmp_points (
//	    measurement text        NOT NULL,
//	    tags        jsonb       NOT NULL,
//	    fields      jsonb       NOT NULL,
//	    ts          timestamptz NOT NULL,
//	    UNIQUE (measurement, tags, ts)
//	);
//	SELECT create_hypertable('snmp_points', 'ts');
type TimescaleConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

func (c *TimescaleConfig) ApplyDefaults() {
	if c.Table == "" {
		c.Table = "snmp_points"
	}
}

func (c *TimescaleConfig) Enabled() bool { return c.ConnString != "" }

// Postgres caps a statement at 65535 bind parameters; each row uses 4.
const maxInsertRows = 65535 / 4

type TimescaleSink struct {
	db        *sql.DB
	tableName string
	maxRows   int
}

func NewTimescaleSink(db *sql.DB, table string) *TimescaleSink {
	return &TimescaleSink{db: db, tableName: table, maxRows: maxInsertRows}
}

func (t *TimescaleSink) Name() string { return "timescaledb" }

// WriteBatch inserts the points with as few statements as the parameter limit
// allows. Rows already present are skipped, so a replayed batch is harmless.
func (t *TimescaleSink) WriteBatch(ctx context.Context, points []*domain.Point) error {
	for len(points) > 0 {
		n := len(points)
		if n > t.maxRows {
			n = t.maxRows
		}
		if err := t.insert(ctx, points[:n]); err != nil {
			return err
		}
		points = points[n:]
	}
	return nil
}

func (t *TimescaleSink) insert(ctx context.Context, points []*domain.Point) error {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (measurement, tags, fields, ts) VALUES ")

	args := make([]any, 0, len(points)*4)
	for i, p := range points {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d)",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4))
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}
		fields, err := json.Marshal(p.Fields)
		if err != nil {
			return fmt.Errorf("marshal fields: %w", err)
		}

		args = append(args,
			p.Measurement,
			tags,
			fields,
			p.Time,
		)
	}

	b.WriteString(" ON CONFLICT (measurement, tags, ts) DO NOTHING")

	_, err := t.db.ExecContext(ctx, b.String(), args...)
	return err
}

func (t *TimescaleSink) Close() error {
	return t.db.Close()
}

var _ ports.Sink = (*TimescaleSink)(nil)
