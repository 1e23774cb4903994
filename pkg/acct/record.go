package acct

import (
	"github.com/google/uuid"

	"github.com/telcokit/radiusd/pkg/packet"
)

// Record is the decoded content of one Accounting-Request.
type Record struct {
	StatusType       uint32
	SessionID        string
	NASIP            string
	Username         string
	NASPort          uint32
	SessionTime      uint32
	InputOctets      uint64
	OutputOctets     uint64
	InputPackets     uint64
	OutputPackets    uint64
	TerminateCause   uint32
	CalledStationID  string
	CallingStationID string
	FramedIP         string
}

// ParseRecord extracts the accounting fields from a request. The NAS-IP
// attribute identifies the session owner; when the NAS omits it, the
// datagram's source address is used instead.
func ParseRecord(req *packet.Packet, srcIP string) *Record {
	nasIP := req.GetAddress(packet.AttrNASIPAddress)
	if nasIP == "" {
		nasIP = srcIP
	}

	return &Record{
		StatusType:       req.GetInteger(packet.AttrAcctStatusType),
		SessionID:        req.GetString(packet.AttrAcctSessionID),
		NASIP:            nasIP,
		Username:         req.GetString(packet.AttrUserName),
		NASPort:          req.GetInteger(packet.AttrNASPort),
		SessionTime:      req.GetInteger(packet.AttrAcctSessionTime),
		InputOctets:      uint64(req.GetInteger(packet.AttrAcctInputOctets)),
		OutputOctets:     uint64(req.GetInteger(packet.AttrAcctOutputOctets)),
		InputPackets:     uint64(req.GetInteger(packet.AttrAcctInputPackets)),
		OutputPackets:    uint64(req.GetInteger(packet.AttrAcctOutputPackets)),
		TerminateCause:   req.GetInteger(packet.AttrAcctTerminate),
		CalledStationID:  req.GetString(packet.AttrCalledStationID),
		CallingStationID: req.GetString(packet.AttrCallingStationID),
		FramedIP:         req.GetAddress(packet.AttrFramedIPAddress),
	}
}

// UniqueID derives the stable accounting record identifier for the session
// key. Deterministic derivation makes retransmitted Stop records converge on
// one archived row instead of minting duplicates.
func (r *Record) UniqueID() string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(r.NASIP+":"+r.SessionID)).String()
}
