package auth

import (
	"context"
	"strconv"

	"github.com/telcokit/radiusd/pkg/log"
	"github.com/telcokit/radiusd/pkg/packet"
	"github.com/telcokit/radiusd/pkg/store"
)

// Default authorization attributes sent in every Access-Accept unless the
// user's stored reply attributes override them.
const (
	DefaultSessionTimeout uint32 = 86400
	DefaultIdleTimeout    uint32 = 1800
)

// ReplyBuilder assembles Access-Accept packets: the default attribute set
// merged with the user's stored reply attributes.
type ReplyBuilder struct {
	credentials store.CredentialStore
	logger      log.Logger
}

// NewReplyBuilder creates a reply builder on the given credential store.
func NewReplyBuilder(credentials store.CredentialStore, logger log.Logger) *ReplyBuilder {
	return &ReplyBuilder{credentials: credentials, logger: logger}
}

// Build constructs an unsigned Access-Accept for the authenticated user.
// Stored Session-Timeout and Idle-Timeout values replace the defaults; other
// stored attributes are appended in their stored order. Unknown attribute
// names are skipped with a warning.
func (b *ReplyBuilder) Build(ctx context.Context, identifier uint8, username string) *packet.Packet {
	resp := packet.New(packet.CodeAccessAccept, identifier)
	resp.AddAttribute(packet.NewIntegerAttribute(packet.AttrServiceType, packet.ServiceTypeFramedUser))
	resp.AddAttribute(packet.NewIntegerAttribute(packet.AttrFramedProtocol, packet.FramedProtocolPPP))

	sessionTimeout := DefaultSessionTimeout
	idleTimeout := DefaultIdleTimeout

	attrs, err := b.credentials.LookupReplyAttributes(ctx, username)
	if err != nil {
		b.logger.WithFields(log.Fields{"username": username}).Warnf("reply attribute lookup failed: %v", err)
		attrs = nil
	}

	for _, attr := range attrs {
		switch attr.Name {
		case "Session-Timeout":
			if v, ok := b.parseInteger(username, attr); ok {
				sessionTimeout = v
			}
		case "Idle-Timeout":
			if v, ok := b.parseInteger(username, attr); ok {
				idleTimeout = v
			}
		case "Mikrotik-Group":
			resp.AddVendorAttribute(packet.NewVendorAttribute(
				packet.VendorMikrotik, packet.MikrotikGroup, []byte(attr.Value)))
		case "Framed-IP-Address":
			resp.AddAttribute(packet.NewAddressAttribute(packet.AttrFramedIPAddress, attr.Value))
		case "Framed-IP-Netmask":
			resp.AddAttribute(packet.NewAddressAttribute(packet.AttrFramedIPNetmask, attr.Value))
		case "Framed-Route":
			resp.AddAttribute(packet.NewStringAttribute(packet.AttrFramedRoute, attr.Value))
		case "Filter-Id":
			resp.AddAttribute(packet.NewStringAttribute(packet.AttrFilterID, attr.Value))
		case "Reply-Message":
			resp.AddAttribute(packet.NewStringAttribute(packet.AttrReplyMessage, attr.Value))
		case "Framed-MTU":
			if v, ok := b.parseInteger(username, attr); ok {
				resp.AddAttribute(packet.NewIntegerAttribute(packet.AttrFramedMTU, v))
			}
		case "Port-Limit":
			if v, ok := b.parseInteger(username, attr); ok {
				resp.AddAttribute(packet.NewIntegerAttribute(packet.AttrPortLimit, v))
			}
		default:
			b.logger.WithFields(log.Fields{
				"username":  username,
				"attribute": attr.Name,
			}).Warn("skipping unknown reply attribute")
		}
	}

	resp.AddAttribute(packet.NewIntegerAttribute(packet.AttrSessionTimeout, sessionTimeout))
	resp.AddAttribute(packet.NewIntegerAttribute(packet.AttrIdleTimeout, idleTimeout))

	return resp
}

func (b *ReplyBuilder) parseInteger(username string, attr store.ReplyAttribute) (uint32, bool) {
	v, err := strconv.ParseUint(attr.Value, 10, 32)
	if err != nil {
		b.logger.WithFields(log.Fields{
			"username":  username,
			"attribute": attr.Name,
			"value":     attr.Value,
		}).Warn("skipping reply attribute with invalid integer value")
		return 0, false
	}
	return uint32(v), true
}
