package packet

import (
	"fmt"
)

// Encode converts a Packet into its binary representation per RFC 2865 Section 3
func (p *Packet) Encode() ([]byte, error) {
	if err := p.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid packet: %w", err)
	}

	data := make([]byte, p.Length)

	data[0] = byte(p.Code)
	data[1] = p.Identifier
	data[2] = byte(p.Length >> 8)
	data[3] = byte(p.Length)
	copy(data[4:PacketHeaderLength], p.Authenticator[:])

	offset := PacketHeaderLength
	for _, attr := range p.Attributes {
		data[offset] = attr.Type
		data[offset+1] = attr.Length
		copy(data[offset+2:offset+int(attr.Length)], attr.Value)
		offset += int(attr.Length)
	}

	return data, nil
}

// Decode parses binary data into a Packet per RFC 2865 Section 3.
//
// Decoding is lenient about the attribute stream: a malformed TLV (length
// below 2 or extending past the buffer) stops attribute parsing, keeping the
// attributes decoded so far. Only an unreadable header or an out-of-range
// declared length is a hard error.
func Decode(data []byte) (*Packet, error) {
	if len(data) < MinPacketLength {
		return nil, fmt.Errorf("packet too short: %d bytes", len(data))
	}

	length := uint16(data[2])<<8 | uint16(data[3])
	if length < MinPacketLength {
		return nil, fmt.Errorf("invalid packet length in header: %d", length)
	}
	if length > MaxPacketLength {
		return nil, fmt.Errorf("packet too long: %d bytes", length)
	}

	var authenticator [AuthenticatorLength]byte
	copy(authenticator[:], data[4:PacketHeaderLength])

	packet := &Packet{
		Code:          Code(data[0]),
		Identifier:    data[1],
		Length:        length,
		Authenticator: authenticator,
		Attributes:    make([]*Attribute, 0),
	}

	// Attributes are consumed up to the declared length, but never past the
	// datagram itself.
	limit := int(length)
	if limit > len(data) {
		limit = len(data)
	}

	offset := PacketHeaderLength
	for offset+AttributeHeaderLength <= limit {
		attrType := data[offset]
		attrLength := int(data[offset+1])

		if attrLength < AttributeHeaderLength || offset+attrLength > limit {
			break
		}

		value := make([]byte, attrLength-AttributeHeaderLength)
		copy(value, data[offset+2:offset+attrLength])

		packet.Attributes = append(packet.Attributes, &Attribute{
			Type:   attrType,
			Length: uint8(attrLength),
			Value:  value,
		})

		offset += attrLength
	}

	return packet, nil
}
