package domain

// Device is one polled target as configured by the operator.
type Device struct {
	Hostname  string `yaml:"hostname"`
	IP        string `yaml:"ip"`
	Port      uint16 `yaml:"port"`
	Community string `yaml:"community"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

// Authenticated reports whether the device should be polled with
// user-based (SNMPv3) access rather than a community string.
func (d Device) Authenticated() bool {
	return d.Username != ""
}

// Interface is a device-reported port as seen during a single scrape.
type Interface struct {
	Index       int
	Name        string
	Description string
	Counters    map[string]any
}
