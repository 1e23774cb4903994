package packet

import (
	"crypto/md5"
	"fmt"
)

// Packet represents a RADIUS packet as defined in RFC 2865.
// Attribute order is preserved; duplicate attribute types are legal.
type Packet struct {
	Code          Code
	Identifier    uint8
	Length        uint16
	Authenticator [AuthenticatorLength]byte
	Attributes    []*Attribute
}

// New creates a new RADIUS packet with the specified code and identifier
func New(code Code, identifier uint8) *Packet {
	return &Packet{
		Code:       code,
		Identifier: identifier,
		Length:     PacketHeaderLength,
		Attributes: make([]*Attribute, 0),
	}
}

// AddAttribute adds an attribute to the packet
func (p *Packet) AddAttribute(attr *Attribute) {
	p.Attributes = append(p.Attributes, attr)
	p.Length += uint16(attr.Length)
}

// AddVendorAttribute adds a vendor-specific attribute to the packet
func (p *Packet) AddVendorAttribute(va *VendorAttribute) {
	p.AddAttribute(va.ToVSA())
}

// GetAttribute returns the first attribute with the specified type
func (p *Packet) GetAttribute(attrType uint8) (*Attribute, bool) {
	for _, attr := range p.Attributes {
		if attr.Type == attrType {
			return attr, true
		}
	}
	return nil, false
}

// GetAttributes returns all attributes with the specified type
func (p *Packet) GetAttributes(attrType uint8) []*Attribute {
	var attrs []*Attribute
	for _, attr := range p.Attributes {
		if attr.Type == attrType {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// RemoveAttribute removes the first attribute with the specified type
func (p *Packet) RemoveAttribute(attrType uint8) bool {
	for i, attr := range p.Attributes {
		if attr.Type == attrType {
			p.Length -= uint16(attr.Length)
			p.Attributes = append(p.Attributes[:i], p.Attributes[i+1:]...)
			return true
		}
	}
	return false
}

// GetString returns the first value of a text attribute as UTF-8
func (p *Packet) GetString(attrType uint8) string {
	if attr, ok := p.GetAttribute(attrType); ok {
		return string(attr.Value)
	}
	return ""
}

// GetInteger returns the first value of a scalar attribute as big-endian uint32
func (p *Packet) GetInteger(attrType uint8) uint32 {
	if attr, ok := p.GetAttribute(attrType); ok {
		return DecodeInteger(attr.Value)
	}
	return 0
}

// GetAddress returns the first value of an address attribute as a dotted-quad string
func (p *Packet) GetAddress(attrType uint8) string {
	if attr, ok := p.GetAttribute(attrType); ok {
		return DecodeIPAddr(attr.Value)
	}
	return ""
}

// GetBytes returns the first value of an attribute as raw octets
func (p *Packet) GetBytes(attrType uint8) []byte {
	if attr, ok := p.GetAttribute(attrType); ok {
		return attr.Value
	}
	return nil
}

// GetVendor collects the sub-attributes of the requested vendor across all
// Vendor-Specific attributes in the packet. Returns nil when none are present.
func (p *Packet) GetVendor(vendorID uint32) map[uint8][]byte {
	var merged map[uint8][]byte
	for _, attr := range p.GetAttributes(AttrVendorSpecific) {
		for subType, value := range DecodeVendor(attr.Value, vendorID) {
			if merged == nil {
				merged = make(map[uint8][]byte)
			}
			merged[subType] = value
		}
	}
	return merged
}

// ResponseAuthenticator calculates the response authenticator over this packet:
// MD5(Code + ID + Length + Request Authenticator + Response Attributes + Secret).
// The same formula covers Access-Accept, Access-Reject and Accounting-Response;
// only the inputs differ.
func (p *Packet) ResponseAuthenticator(secret []byte, requestAuthenticator [AuthenticatorLength]byte) [AuthenticatorLength]byte {
	hash := md5.New()
	hash.Write([]byte{byte(p.Code), p.Identifier, byte(p.Length >> 8), byte(p.Length)})
	hash.Write(requestAuthenticator[:])
	for _, attr := range p.Attributes {
		hash.Write([]byte{attr.Type, attr.Length})
		hash.Write(attr.Value)
	}
	hash.Write(secret)

	var auth [AuthenticatorLength]byte
	copy(auth[:], hash.Sum(nil))
	return auth
}

// Sign sets the packet authenticator to the response authenticator computed
// with the given shared secret and request authenticator
func (p *Packet) Sign(secret []byte, requestAuthenticator [AuthenticatorLength]byte) {
	p.Authenticator = p.ResponseAuthenticator(secret, requestAuthenticator)
}

// IsValid performs basic validation of the packet
func (p *Packet) IsValid() error {
	if !p.Code.IsValid() {
		return fmt.Errorf("invalid packet code: %d", p.Code)
	}

	if p.Length < MinPacketLength {
		return fmt.Errorf("packet too short: %d bytes", p.Length)
	}

	if p.Length > MaxPacketLength {
		return fmt.Errorf("packet too long: %d bytes", p.Length)
	}

	expectedLength := uint16(PacketHeaderLength)
	for _, attr := range p.Attributes {
		expectedLength += uint16(attr.Length)
	}

	if p.Length != expectedLength {
		return fmt.Errorf("packet length mismatch: header says %d, calculated %d", p.Length, expectedLength)
	}

	return nil
}

// String returns a string representation of the packet
func (p *Packet) String() string {
	return fmt.Sprintf("Code=%s(%d), ID=%d, Length=%d, Attributes=%d",
		p.Code.String(), uint8(p.Code), p.Identifier, p.Length, len(p.Attributes))
}
