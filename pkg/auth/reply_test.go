package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telcokit/radiusd/pkg/log"
	"github.com/telcokit/radiusd/pkg/packet"
	"github.com/telcokit/radiusd/pkg/store"
)

func newReplyBuilder(users map[string]store.UserEntry) *ReplyBuilder {
	return NewReplyBuilder(store.NewFileCredentialStore(users), log.NewDefaultLogger())
}

func TestBuildDefaults(t *testing.T) {
	b := newReplyBuilder(map[string]store.UserEntry{"alice": {Secret: "x"}})

	resp := b.Build(context.Background(), 9, "alice")

	assert.Equal(t, packet.CodeAccessAccept, resp.Code)
	assert.Equal(t, uint8(9), resp.Identifier)
	assert.Equal(t, packet.ServiceTypeFramedUser, resp.GetInteger(packet.AttrServiceType))
	assert.Equal(t, packet.FramedProtocolPPP, resp.GetInteger(packet.AttrFramedProtocol))
	assert.Equal(t, DefaultSessionTimeout, resp.GetInteger(packet.AttrSessionTimeout))
	assert.Equal(t, DefaultIdleTimeout, resp.GetInteger(packet.AttrIdleTimeout))
}

func TestBuildTimeoutOverridesReplaceDefaults(t *testing.T) {
	b := newReplyBuilder(map[string]store.UserEntry{
		"alice": {Secret: "x", Reply: []store.ReplyAttribute{
			{Name: "Session-Timeout", Op: "=", Value: "3600"},
			{Name: "Idle-Timeout", Op: "=", Value: "600"},
		}},
	})

	resp := b.Build(context.Background(), 1, "alice")

	assert.Equal(t, uint32(3600), resp.GetInteger(packet.AttrSessionTimeout))
	assert.Equal(t, uint32(600), resp.GetInteger(packet.AttrIdleTimeout))

	// Replaced, not appended
	assert.Len(t, resp.GetAttributes(packet.AttrSessionTimeout), 1)
	assert.Len(t, resp.GetAttributes(packet.AttrIdleTimeout), 1)
}

func TestBuildUserAttributes(t *testing.T) {
	b := newReplyBuilder(map[string]store.UserEntry{
		"alice": {Secret: "x", Reply: []store.ReplyAttribute{
			{Name: "Mikrotik-Group", Op: "=", Value: "premium"},
			{Name: "Framed-IP-Address", Op: "=", Value: "10.64.0.9"},
			{Name: "Framed-IP-Netmask", Op: "=", Value: "255.255.255.0"},
			{Name: "Filter-Id", Op: "=", Value: "shaping-20m"},
			{Name: "Framed-MTU", Op: "=", Value: "1480"},
		}},
	})

	resp := b.Build(context.Background(), 1, "alice")

	vendor := resp.GetVendor(packet.VendorMikrotik)
	require.NotNil(t, vendor)
	assert.Equal(t, []byte("premium"), vendor[packet.MikrotikGroup])

	assert.Equal(t, "10.64.0.9", resp.GetAddress(packet.AttrFramedIPAddress))
	assert.Equal(t, "255.255.255.0", resp.GetAddress(packet.AttrFramedIPNetmask))
	assert.Equal(t, "shaping-20m", resp.GetString(packet.AttrFilterID))
	assert.Equal(t, uint32(1480), resp.GetInteger(packet.AttrFramedMTU))
}

func TestBuildSkipsUnknownAndInvalidAttributes(t *testing.T) {
	b := newReplyBuilder(map[string]store.UserEntry{
		"alice": {Secret: "x", Reply: []store.ReplyAttribute{
			{Name: "No-Such-Attribute", Op: "=", Value: "whatever"},
			{Name: "Session-Timeout", Op: "=", Value: "not-a-number"},
		}},
	})

	resp := b.Build(context.Background(), 1, "alice")

	// Unknown name skipped, bad integer keeps the default
	assert.Equal(t, DefaultSessionTimeout, resp.GetInteger(packet.AttrSessionTimeout))
	for _, attr := range resp.Attributes {
		assert.NotEqual(t, []byte("whatever"), attr.Value)
	}
}

func TestBuildUnknownUserStillGetsDefaults(t *testing.T) {
	b := newReplyBuilder(map[string]store.UserEntry{})

	resp := b.Build(context.Background(), 1, "ghost")

	assert.Equal(t, packet.CodeAccessAccept, resp.Code)
	assert.Equal(t, DefaultSessionTimeout, resp.GetInteger(packet.AttrSessionTimeout))
}
