package packet

// Standard attribute types used by the server (RFC 2865, RFC 2866, RFC 2869).
// The set is deliberately closed: anything outside it travels as raw octets.
const (
	AttrUserName          uint8 = 1
	AttrUserPassword      uint8 = 2
	AttrCHAPPassword      uint8 = 3
	AttrNASIPAddress      uint8 = 4
	AttrNASPort           uint8 = 5
	AttrServiceType       uint8 = 6
	AttrFramedProtocol    uint8 = 7
	AttrFramedIPAddress   uint8 = 8
	AttrFramedIPNetmask   uint8 = 9
	AttrFilterID          uint8 = 11
	AttrFramedMTU         uint8 = 12
	AttrReplyMessage      uint8 = 18
	AttrFramedRoute       uint8 = 22
	AttrClass             uint8 = 25
	AttrVendorSpecific    uint8 = 26
	AttrSessionTimeout    uint8 = 27
	AttrIdleTimeout       uint8 = 28
	AttrCalledStationID   uint8 = 30
	AttrCallingStationID  uint8 = 31
	AttrNASIdentifier     uint8 = 32
	AttrAcctStatusType    uint8 = 40
	AttrAcctDelayTime     uint8 = 41
	AttrAcctInputOctets   uint8 = 42
	AttrAcctOutputOctets  uint8 = 43
	AttrAcctSessionID     uint8 = 44
	AttrAcctAuthentic     uint8 = 45
	AttrAcctSessionTime   uint8 = 46
	AttrAcctInputPackets  uint8 = 47
	AttrAcctOutputPackets uint8 = 48
	AttrAcctTerminate     uint8 = 49
	AttrCHAPChallenge     uint8 = 60
	AttrNASPortType       uint8 = 61
	AttrPortLimit         uint8 = 62
)

// Acct-Status-Type values (RFC 2866 Section 5.1)
const (
	AcctStatusStart         uint32 = 1
	AcctStatusStop          uint32 = 2
	AcctStatusInterimUpdate uint32 = 3
	AcctStatusAccountingOn  uint32 = 7
	AcctStatusAccountingOff uint32 = 8
)

// Vendor IDs carried in Vendor-Specific attributes
const (
	// VendorMicrosoft is the Microsoft vendor ID (RFC 2548)
	VendorMicrosoft uint32 = 311
	// VendorMikrotik is the Mikrotik vendor ID
	VendorMikrotik uint32 = 14988
)

// Microsoft vendor sub-attribute types (RFC 2548)
const (
	MSCHAPResponse  uint8 = 1
	MSCHAPChallenge uint8 = 11
	MSCHAP2Response uint8 = 25
)

// Mikrotik vendor sub-attribute types
const (
	MikrotikGroup uint8 = 3
)

// Service-Type and Framed-Protocol values used in replies (RFC 2865)
const (
	ServiceTypeFramedUser uint32 = 2
	FramedProtocolPPP     uint32 = 1
)
