package packet

import (
	"encoding/binary"
	"fmt"
)

// Attribute represents a single RADIUS attribute TLV
type Attribute struct {
	Type   uint8
	Length uint8
	Value  []byte
}

// NewAttribute creates a new RADIUS attribute
func NewAttribute(attrType uint8, value []byte) *Attribute {
	return &Attribute{
		Type:   attrType,
		Length: uint8(len(value) + AttributeHeaderLength),
		Value:  value,
	}
}

// NewStringAttribute creates a text attribute
func NewStringAttribute(attrType uint8, value string) *Attribute {
	return NewAttribute(attrType, []byte(value))
}

// NewIntegerAttribute creates a 32-bit big-endian integer attribute
func NewIntegerAttribute(attrType uint8, value uint32) *Attribute {
	return NewAttribute(attrType, EncodeInteger(value))
}

// NewAddressAttribute creates an IPv4 address attribute from a dotted-quad string.
// An unparseable address encodes as 0.0.0.0, matching how the NAS treats a
// missing address.
func NewAddressAttribute(attrType uint8, value string) *Attribute {
	return NewAttribute(attrType, EncodeIPAddr(value))
}

// String returns a string representation of the attribute
func (a *Attribute) String() string {
	return fmt.Sprintf("Type=%d, Length=%d, Value=%x", a.Type, a.Length, a.Value)
}

// VendorAttribute represents a vendor-specific sub-attribute (VSA)
type VendorAttribute struct {
	VendorID   uint32
	VendorType uint8
	Value      []byte
}

// NewVendorAttribute creates a new vendor-specific attribute
func NewVendorAttribute(vendorID uint32, vendorType uint8, value []byte) *VendorAttribute {
	return &VendorAttribute{
		VendorID:   vendorID,
		VendorType: vendorType,
		Value:      value,
	}
}

// String returns a string representation of the vendor attribute
func (va *VendorAttribute) String() string {
	return fmt.Sprintf("VendorID=%d, Type=%d, Value=%x", va.VendorID, va.VendorType, va.Value)
}

// ToVSA converts a VendorAttribute to a standard Attribute (Type 26 - Vendor-Specific)
func (va *VendorAttribute) ToVSA() *Attribute {
	// VSA value: Vendor-ID(4) + Vendor-Type(1) + Vendor-Length(1) + Vendor-Data
	vsaValue := make([]byte, VendorSpecificHeaderLength+len(va.Value))
	binary.BigEndian.PutUint32(vsaValue[0:4], va.VendorID)
	vsaValue[4] = va.VendorType
	vsaValue[5] = uint8(len(va.Value) + 2) // vendor length includes its own header
	copy(vsaValue[6:], va.Value)

	return NewAttribute(AttrVendorSpecific, vsaValue)
}

// DecodeVendor walks the sub-TLVs inside a Vendor-Specific attribute value and
// returns the sub-attributes belonging to the requested vendor. Sub-blocks of
// other vendors are skipped, not rejected, so several vendors may share one
// attribute list. Malformed sub-TLVs end the walk with whatever was collected.
func DecodeVendor(value []byte, vendorID uint32) map[uint8][]byte {
	attrs := make(map[uint8][]byte)

	offset := 0
	for offset+VendorSpecificHeaderLength <= len(value) {
		id := binary.BigEndian.Uint32(value[offset : offset+4])
		offset += 4

		subType := value[offset]
		subLength := int(value[offset+1])

		if subLength < 2 || offset+subLength > len(value) {
			break
		}

		if id == vendorID {
			attrs[subType] = value[offset+2 : offset+subLength]
		}

		offset += subLength
	}

	return attrs
}
