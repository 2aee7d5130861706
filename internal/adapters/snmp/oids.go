package snmp

// Interface table columns. The index is appended per interface.
const (
	oidIfXEntry = "1.3.6.1.2.1.31.1.1.1"
	oidIfEntry  = "1.3.6.1.2.1.2.2.1"

	oidIfName  = oidIfXEntry + ".1"
	oidIfDescr = oidIfEntry + ".2"
)

// System group scalars.
const (
	oidSysDescr    = "1.3.6.1.2.1.1.1.0"
	oidSysObjectID = "1.3.6.1.2.1.1.2.0"
	oidSysUpTime   = "1.3.6.1.2.1.1.3.0"
	oidSysName     = "1.3.6.1.2.1.1.5.0"
)

type fieldOID struct {
	field string
	oid   string
}

var interfaceFields = []fieldOID{
	{"ifin", oidIfXEntry + ".6"},
	{"ifout", oidIfXEntry + ".10"},
	{"ifinpkts", oidIfXEntry + ".7"},
	{"ifoutpkts", oidIfXEntry + ".11"},
	{"ifinerr", oidIfEntry + ".14"},
	{"ifouterr", oidIfEntry + ".20"},
	{"ifindiscards", oidIfEntry + ".13"},
	{"ifoutdiscards", oidIfEntry + ".19"},
	{"ifoperstatus", oidIfEntry + ".8"},
	{"ifadminstatus", oidIfEntry + ".7"},
}

var systemFields = []fieldOID{
	{"sys_descr", oidSysDescr},
	{"sys_object_id", oidSysObjectID},
	{"uptime", oidSysUpTime},
	{"sys_name", oidSysName},
}
