package snmp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"

	"github.com/gosnmp/gosnmp"
)

// ErrNoCredentials is returned for a device with neither a community nor a
// username after defaults have been applied.
var ErrNoCredentials = errors.New("snmp: device has no community or username")

// Dialer opens one gosnmp session per Dial call. Sessions are never pooled.
type Dialer struct {
	cfg Config
}

func NewDialer(cfg Config) *Dialer {
	cfg.ApplyDefaults()
	return &Dialer{cfg: cfg}
}

func (d *Dialer) Dial(ctx context.Context, device domain.Device) (ports.Session, error) {
	client, err := d.newClient(ctx, device)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect %s: %w", client.Target, err)
	}
	return &session{client: client}, nil
}

// newClient builds an unconnected client. A username selects SNMPv3 authPriv
// with SHA/AES and the password used for both passphrases; otherwise the
// community string selects SNMPv2c.
func (d *Dialer) newClient(ctx context.Context, device domain.Device) (*gosnmp.GoSNMP, error) {
	port := device.Port
	if port == 0 {
		port = d.cfg.Port
	}

	client := &gosnmp.GoSNMP{
		Target:         device.IP,
		Port:           port,
		Transport:      "udp",
		Context:        ctx,
		Timeout:        d.cfg.Timeout,
		Retries:        d.cfg.RetryCount(),
		MaxRepetitions: d.cfg.MaxRepetitions,
		MaxOids:        gosnmp.MaxOids,
	}

	switch {
	case device.Authenticated():
		client.Version = gosnmp.Version3
		client.SecurityModel = gosnmp.UserSecurityModel
		client.MsgFlags = gosnmp.AuthPriv
		client.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 device.Username,
			AuthenticationProtocol:   gosnmp.SHA,
			AuthenticationPassphrase: device.Password,
			PrivacyProtocol:          gosnmp.AES,
			PrivacyPassphrase:        device.Password,
		}
	case device.Community != "":
		client.Version = gosnmp.Version2c
		client.Community = device.Community
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoCredentials, device.Hostname)
	}
	return client, nil
}

type session struct {
	client *gosnmp.GoSNMP
}

func (s *session) Get(oids []string) ([]ports.Variable, error) {
	req := make([]string, len(oids))
	for i, oid := range oids {
		req[i] = "." + strings.TrimPrefix(oid, ".")
	}

	packet, err := s.client.Get(req)
	if err != nil {
		return nil, err
	}
	if packet.Error != gosnmp.NoError {
		return nil, fmt.Errorf("snmp get: %s at index %d", packet.Error, packet.ErrorIndex)
	}

	out := make([]ports.Variable, 0, len(packet.Variables))
	for _, pdu := range packet.Variables {
		out = append(out, toVariable(pdu))
	}
	return out, nil
}

func (s *session) Walk(rootOID string, fn func(ports.Variable) error) error {
	return s.client.BulkWalk("."+strings.TrimPrefix(rootOID, "."), func(pdu gosnmp.SnmpPDU) error {
		return fn(toVariable(pdu))
	})
}

func (s *session) Close() error {
	if s.client.Conn == nil {
		return nil
	}
	return s.client.Conn.Close()
}

func toVariable(pdu gosnmp.SnmpPDU) ports.Variable {
	return ports.Variable{
		OID:   strings.TrimPrefix(pdu.Name, "."),
		Value: normalizeValue(pdu),
	}
}

// normalizeValue maps gosnmp's per-type Go values onto string, uint64, int64
// or nil. Counter width is preserved as reported.
func normalizeValue(pdu gosnmp.SnmpPDU) any {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return nil
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return string(b)
		}
		return fmt.Sprint(pdu.Value)
	case gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Counter64, gosnmp.Uinteger32:
		return gosnmp.ToBigInt(pdu.Value).Uint64()
	case gosnmp.Integer:
		return gosnmp.ToBigInt(pdu.Value).Int64()
	case gosnmp.ObjectIdentifier, gosnmp.IPAddress:
		if s, ok := pdu.Value.(string); ok {
			return strings.TrimPrefix(s, ".")
		}
		return fmt.Sprint(pdu.Value)
	default:
		return pdu.Value
	}
}

var _ ports.Dialer = (*Dialer)(nil)
