package packet

import (
	"encoding/binary"
	"net"
)

// EncodeInteger encodes a 32-bit integer value for RADIUS attributes per RFC 2865 Section 5
func EncodeInteger(value uint32) []byte {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, value)
	return data
}

// DecodeInteger decodes a 32-bit integer value from RADIUS attributes.
// Short values decode as zero rather than erroring, since a truncated scalar
// from the NAS must not abort request handling.
func DecodeInteger(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(data[:4])
}

// EncodeIPAddr encodes a dotted-quad IPv4 address for RADIUS attributes per RFC 2865 Section 5
func EncodeIPAddr(value string) []byte {
	ip := net.ParseIP(value)
	if ip == nil {
		return []byte{0, 0, 0, 0}
	}
	ipv4 := ip.To4()
	if ipv4 == nil {
		return []byte{0, 0, 0, 0}
	}
	return []byte(ipv4)
}

// DecodeIPAddr decodes a 4-byte attribute value to a dotted-quad IPv4 string
func DecodeIPAddr(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	return net.IP(data[:4]).String()
}
