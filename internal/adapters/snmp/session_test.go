package snmp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghalamif/SNMPFlow/internal/domain"

	"github.com/gosnmp/gosnmp"
)

func TestNewClientSelectsCommunityAccess(t *testing.T) {
	d := NewDialer(Config{})
	client, err := d.newClient(context.Background(), domain.Device{
		Hostname:  "testhost01",
		IP:        "192.0.2.1",
		Community: "public",
	})
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if client.Version != gosnmp.Version2c {
		t.Fatalf("expected v2c, got %v", client.Version)
	}
	if client.Community != "public" {
		t.Fatalf("expected community public, got %q", client.Community)
	}
	if client.SecurityParameters != nil {
		t.Fatalf("expected no security parameters for community access")
	}
	if client.Port != 161 {
		t.Fatalf("expected default port 161, got %d", client.Port)
	}
	if client.Timeout != 2*time.Second {
		t.Fatalf("expected default timeout 2s, got %s", client.Timeout)
	}
	if client.Retries != DefaultRetries {
		t.Fatalf("expected default retries %d, got %d", DefaultRetries, client.Retries)
	}
}

func TestNewClientWithoutRetries(t *testing.T) {
	zero := 0
	d := NewDialer(Config{Retries: &zero})
	client, err := d.newClient(context.Background(), domain.Device{IP: "192.0.2.6", Community: "public"})
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if client.Retries != 0 {
		t.Fatalf("expected retransmission to be disabled, got %d", client.Retries)
	}
}

func TestConfigRejectsNegativeRetries(t *testing.T) {
	n := -1
	c := Config{Retries: &n}
	c.ApplyDefaults()
	if err := c.Validate(); err == nil {
		t.Fatalf("expected negative retries to fail validation")
	}
}

func TestNewClientSelectsAuthenticatedAccess(t *testing.T) {
	d := NewDialer(Config{Port: 1161})
	client, err := d.newClient(context.Background(), domain.Device{
		Hostname: "core01",
		IP:       "192.0.2.2",
		Username: "poller",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if client.Version != gosnmp.Version3 {
		t.Fatalf("expected v3, got %v", client.Version)
	}
	if client.MsgFlags != gosnmp.AuthPriv {
		t.Fatalf("expected authPriv, got %v", client.MsgFlags)
	}
	usm, ok := client.SecurityParameters.(*gosnmp.UsmSecurityParameters)
	if !ok {
		t.Fatalf("expected USM parameters, got %T", client.SecurityParameters)
	}
	if usm.UserName != "poller" || usm.AuthenticationProtocol != gosnmp.SHA || usm.PrivacyProtocol != gosnmp.AES {
		t.Fatalf("unexpected USM parameters: %+v", usm)
	}
	if usm.AuthenticationPassphrase != "s3cret-pass" || usm.PrivacyPassphrase != "s3cret-pass" {
		t.Fatalf("expected password to be used for auth and privacy")
	}
	if client.Port != 1161 {
		t.Fatalf("expected configured port 1161, got %d", client.Port)
	}
}

func TestNewClientPrefersUsernameOverCommunity(t *testing.T) {
	d := NewDialer(Config{})
	client, err := d.newClient(context.Background(), domain.Device{
		IP:        "192.0.2.3",
		Community: "public",
		Username:  "poller",
		Password:  "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if client.Version != gosnmp.Version3 {
		t.Fatalf("expected v3 when username is set, got %v", client.Version)
	}
}

func TestNewClientDevicePortOverride(t *testing.T) {
	d := NewDialer(Config{})
	client, err := d.newClient(context.Background(), domain.Device{IP: "192.0.2.4", Port: 16100, Community: "c"})
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if client.Port != 16100 {
		t.Fatalf("expected device port 16100, got %d", client.Port)
	}
}

func TestNewClientWithoutCredentials(t *testing.T) {
	d := NewDialer(Config{})
	_, err := d.newClient(context.Background(), domain.Device{Hostname: "bare", IP: "192.0.2.5"})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		name string
		pdu  gosnmp.SnmpPDU
		want any
	}{
		{"octet string", gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("ether1")}, "ether1"},
		{"counter32", gosnmp.SnmpPDU{Type: gosnmp.Counter32, Value: uint(42)}, uint64(42)},
		{"counter64", gosnmp.SnmpPDU{Type: gosnmp.Counter64, Value: uint64(1) << 40}, uint64(1) << 40},
		{"timeticks", gosnmp.SnmpPDU{Type: gosnmp.TimeTicks, Value: uint32(360000)}, uint64(360000)},
		{"integer", gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: 1}, int64(1)},
		{"oid", gosnmp.SnmpPDU{Type: gosnmp.ObjectIdentifier, Value: ".1.3.6.1.4.1.14988.1"}, "1.3.6.1.4.1.14988.1"},
		{"no such instance", gosnmp.SnmpPDU{Type: gosnmp.NoSuchInstance}, nil},
		{"no such object", gosnmp.SnmpPDU{Type: gosnmp.NoSuchObject}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeValue(tc.pdu); got != tc.want {
				t.Fatalf("expected %v (%T), got %v (%T)", tc.want, tc.want, got, got)
			}
		})
	}
}

func TestToVariableTrimsLeadingDot(t *testing.T) {
	v := toVariable(gosnmp.SnmpPDU{Name: ".1.3.6.1.2.1.1.5.0", Type: gosnmp.OctetString, Value: []byte("r1")})
	if v.OID != "1.3.6.1.2.1.1.5.0" {
		t.Fatalf("expected trimmed OID, got %s", v.OID)
	}
}
