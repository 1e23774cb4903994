package server

import (
	"context"

	"github.com/telcokit/radiusd/pkg/acct"
	"github.com/telcokit/radiusd/pkg/auth"
	"github.com/telcokit/radiusd/pkg/log"
	"github.com/telcokit/radiusd/pkg/packet"
	"github.com/telcokit/radiusd/pkg/store"
)

// AuthHandler serves the authentication port.
type AuthHandler struct {
	engine *auth.Engine
}

// NewAuthHandler creates the Access-Request handler.
func NewAuthHandler(engine *auth.Engine) *AuthHandler {
	return &AuthHandler{engine: engine}
}

// Handle implements Handler. Non-Access-Request packets on the auth port are
// dropped; everything else gets exactly one Accept or Reject.
func (h *AuthHandler) Handle(ctx context.Context, req *packet.Packet, srcIP string) *packet.Packet {
	if req.Code != packet.CodeAccessRequest {
		return nil
	}
	return h.engine.Handle(ctx, req, srcIP)
}

// AcctHandler serves the accounting port.
type AcctHandler struct {
	engine         *acct.Engine
	nas            store.NASRegistry
	fallbackSecret []byte
	logger         log.Logger
}

// NewAcctHandler creates the Accounting-Request handler.
func NewAcctHandler(engine *acct.Engine, nas store.NASRegistry, fallbackSecret string, logger log.Logger) *AcctHandler {
	return &AcctHandler{
		engine:         engine,
		nas:            nas,
		fallbackSecret: []byte(fallbackSecret),
		logger:         logger,
	}
}

// Handle implements Handler. Every absorbed request is acknowledged with an
// Accounting-Response; a failed store write skips the acknowledgement so the
// NAS retransmits (at-most-once accounting).
func (h *AcctHandler) Handle(ctx context.Context, req *packet.Packet, srcIP string) *packet.Packet {
	if req.Code != packet.CodeAccountingRequest {
		return nil
	}

	if err := h.engine.Handle(ctx, req, srcIP); err != nil {
		h.logger.WithFields(log.Fields{"nas_ip": srcIP}).Errorf("accounting not recorded, withholding response: %v", err)
		return nil
	}

	secret := h.fallbackSecret
	if s, err := h.nas.LookupSecretByIP(ctx, srcIP); err == nil {
		secret = []byte(s)
	}

	resp := packet.New(packet.CodeAccountingResponse, req.Identifier)
	resp.Sign(secret, req.Authenticator)
	return resp
}
