package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttribute(t *testing.T) {
	attr := NewAttribute(AttrUserName, []byte("test"))

	assert.Equal(t, AttrUserName, attr.Type)
	assert.Equal(t, uint8(6), attr.Length)
	assert.Equal(t, []byte("test"), attr.Value)
}

func TestNewIntegerAttribute(t *testing.T) {
	attr := NewIntegerAttribute(AttrSessionTimeout, 86400)

	assert.Equal(t, uint8(6), attr.Length)
	assert.Equal(t, []byte{0x00, 0x01, 0x51, 0x80}, attr.Value)
}

func TestNewAddressAttribute(t *testing.T) {
	attr := NewAddressAttribute(AttrFramedIPAddress, "192.0.2.55")
	assert.Equal(t, []byte{192, 0, 2, 55}, attr.Value)

	// Unparseable addresses encode as 0.0.0.0
	attr = NewAddressAttribute(AttrFramedIPAddress, "not-an-ip")
	assert.Equal(t, []byte{0, 0, 0, 0}, attr.Value)
}

func TestVendorAttributeToVSA(t *testing.T) {
	va := NewVendorAttribute(VendorMikrotik, MikrotikGroup, []byte("premium"))
	attr := va.ToVSA()

	assert.Equal(t, AttrVendorSpecific, attr.Type)
	require.Len(t, attr.Value, 6+7)

	// Vendor-ID 14988 big-endian
	assert.Equal(t, []byte{0x00, 0x00, 0x3a, 0x8c}, attr.Value[0:4])
	assert.Equal(t, MikrotikGroup, attr.Value[4])
	assert.Equal(t, uint8(9), attr.Value[5]) // 7 bytes + 2-byte sub-header
	assert.Equal(t, []byte("premium"), attr.Value[6:])
}

func TestDecodeVendor(t *testing.T) {
	value := NewVendorAttribute(VendorMicrosoft, MSCHAPChallenge, []byte{1, 2, 3, 4, 5, 6, 7, 8}).ToVSA().Value

	attrs := DecodeVendor(value, VendorMicrosoft)
	require.Len(t, attrs, 1)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, attrs[MSCHAPChallenge])
}

func TestDecodeVendorSkipsOtherVendors(t *testing.T) {
	// Two vendor blocks back to back: a Mikrotik group and a Microsoft challenge
	mikrotik := NewVendorAttribute(VendorMikrotik, MikrotikGroup, []byte("basic")).ToVSA().Value
	microsoft := NewVendorAttribute(VendorMicrosoft, MSCHAPChallenge, []byte{9, 9, 9, 9}).ToVSA().Value
	value := append(append([]byte{}, mikrotik...), microsoft...)

	ms := DecodeVendor(value, VendorMicrosoft)
	require.Len(t, ms, 1)
	assert.Equal(t, []byte{9, 9, 9, 9}, ms[MSCHAPChallenge])

	mt := DecodeVendor(value, VendorMikrotik)
	require.Len(t, mt, 1)
	assert.Equal(t, []byte("basic"), mt[MikrotikGroup])
}

func TestDecodeVendorMalformed(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
	}{
		{name: "empty", value: nil},
		{name: "short header", value: []byte{0, 0, 1, 0x37}},
		{name: "sub length below minimum", value: []byte{0, 0, 1, 0x37, 11, 1}},
		{name: "sub length overruns", value: []byte{0, 0, 1, 0x37, 11, 40, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := DecodeVendor(tt.value, VendorMicrosoft)
			assert.Empty(t, attrs)
		})
	}
}

func TestGetVendorMergesAcrossAttributes(t *testing.T) {
	p := New(CodeAccessRequest, 1)
	p.AddVendorAttribute(NewVendorAttribute(VendorMicrosoft, MSCHAPChallenge, []byte{1, 2}))
	p.AddVendorAttribute(NewVendorAttribute(VendorMicrosoft, MSCHAP2Response, []byte{3, 4}))
	p.AddVendorAttribute(NewVendorAttribute(VendorMikrotik, MikrotikGroup, []byte("g")))

	ms := p.GetVendor(VendorMicrosoft)
	require.Len(t, ms, 2)
	assert.Equal(t, []byte{1, 2}, ms[MSCHAPChallenge])
	assert.Equal(t, []byte{3, 4}, ms[MSCHAP2Response])

	assert.Nil(t, p.GetVendor(uint32(9)))
}

func TestValueHelpers(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 42}, EncodeInteger(42))
	assert.Equal(t, uint32(42), DecodeInteger([]byte{0, 0, 0, 42}))
	assert.Equal(t, uint32(0), DecodeInteger([]byte{1, 2}))

	assert.Equal(t, []byte{10, 1, 2, 3}, EncodeIPAddr("10.1.2.3"))
	assert.Equal(t, "10.1.2.3", DecodeIPAddr([]byte{10, 1, 2, 3}))
	assert.Equal(t, "", DecodeIPAddr([]byte{10}))
}
