// Package auth implements the Access-Request decision: method detection,
// credential validation and reply construction. One decision per datagram,
// no state carried between requests.
package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/telcokit/radiusd/pkg/crypt"
	"github.com/telcokit/radiusd/pkg/event"
	"github.com/telcokit/radiusd/pkg/log"
	"github.com/telcokit/radiusd/pkg/packet"
	"github.com/telcokit/radiusd/pkg/store"
)

// Authentication methods, in detection precedence order.
const (
	MethodMSCHAPv2 = "mschapv2"
	MethodMSCHAPv1 = "mschapv1"
	MethodCHAP     = "chap"
	MethodPAP      = "pap"
)

// Layout of the 50-byte MS-CHAP response sub-attributes (RFC 2548):
// v1 is ident(1) flags(1) lm-response(24) nt-response(24),
// v2 is ident(1) flags(1) peer-challenge(16) reserved(8) nt-response(24).
const (
	msResponseLength   = 50
	msNTResponseOffset = 26
)

// Engine decides Access-Requests. Every request gets exactly one response;
// every error path downgrades to a Reject, never a dropped datagram.
type Engine struct {
	credentials    store.CredentialStore
	nas            store.NASRegistry
	sink           event.Sink
	reply          *ReplyBuilder
	fallbackSecret []byte
	logger         log.Logger
}

// NewEngine creates an authentication engine. The fallback secret is used
// only to sign rejects when the NAS itself is unknown, so the reject packet
// is still well-formed.
func NewEngine(credentials store.CredentialStore, nas store.NASRegistry, sink event.Sink, fallbackSecret string, logger log.Logger) *Engine {
	return &Engine{
		credentials:    credentials,
		nas:            nas,
		sink:           sink,
		reply:          NewReplyBuilder(credentials, logger),
		fallbackSecret: []byte(fallbackSecret),
		logger:         logger,
	}
}

// Handle decides one Access-Request and returns the signed response packet.
func (e *Engine) Handle(ctx context.Context, req *packet.Packet, nasIP string) *packet.Packet {
	username := req.GetString(packet.AttrUserName)

	secret, err := e.nas.LookupSecretByIP(ctx, nasIP)
	if err != nil {
		e.logger.WithFields(log.Fields{"nas_ip": nasIP}).Warn("access request from unknown NAS")
		return e.reject(ctx, req, e.fallbackSecret, username, nasIP, "", "unknown nas")
	}
	nasSecret := []byte(secret)

	method, ok := e.detectMethod(req)
	if !ok {
		return e.reject(ctx, req, nasSecret, username, nasIP, "", "no credential attributes")
	}

	password, err := e.credentials.LookupSecret(ctx, username)
	if err != nil {
		return e.reject(ctx, req, nasSecret, username, nasIP, method, "unknown user")
	}

	if !e.verify(req, method, username, password, nasSecret) {
		return e.reject(ctx, req, nasSecret, username, nasIP, method, "credential mismatch")
	}

	e.sink.Emit(ctx, event.Event{
		Type:     event.TypeAuthSuccess,
		Time:     time.Now(),
		Username: username,
		NASIP:    nasIP,
		Method:   method,
	})

	resp := e.reply.Build(ctx, req.Identifier, username)
	resp.Sign(nasSecret, req.Authenticator)
	return resp
}

// detectMethod inspects which credential-bearing attributes are present, in
// precedence order MS-CHAPv2, MS-CHAPv1, CHAP, PAP.
func (e *Engine) detectMethod(req *packet.Packet) (string, bool) {
	vendor := req.GetVendor(packet.VendorMicrosoft)
	if _, ok := vendor[packet.MSCHAP2Response]; ok {
		return MethodMSCHAPv2, true
	}
	if _, ok := vendor[packet.MSCHAPResponse]; ok {
		return MethodMSCHAPv1, true
	}
	if _, ok := req.GetAttribute(packet.AttrCHAPPassword); ok {
		return MethodCHAP, true
	}
	if _, ok := req.GetAttribute(packet.AttrUserPassword); ok {
		return MethodPAP, true
	}
	return "", false
}

func (e *Engine) verify(req *packet.Packet, method, username, password string, nasSecret []byte) bool {
	switch method {
	case MethodPAP:
		return e.verifyPAP(req, password, nasSecret)
	case MethodCHAP:
		return e.verifyCHAP(req, password)
	case MethodMSCHAPv1:
		return e.verifyMSCHAPv1(req, password)
	case MethodMSCHAPv2:
		return e.verifyMSCHAPv2(req, username, password)
	default:
		return false
	}
}

func (e *Engine) verifyPAP(req *packet.Packet, password string, nasSecret []byte) bool {
	plain, err := crypt.DecryptPassword(req.GetBytes(packet.AttrUserPassword), req.Authenticator, nasSecret)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(plain, []byte(password)) == 1
}

func (e *Engine) verifyCHAP(req *packet.Packet, password string) bool {
	challenge := req.GetBytes(packet.AttrCHAPChallenge)
	if len(challenge) == 0 {
		challenge = req.Authenticator[:]
	}
	return crypt.CheckCHAPPassword(req.GetBytes(packet.AttrCHAPPassword), []byte(password), challenge)
}

func (e *Engine) verifyMSCHAPv1(req *packet.Packet, password string) bool {
	vendor := req.GetVendor(packet.VendorMicrosoft)
	response := vendor[packet.MSCHAPResponse]
	if len(response) != msResponseLength {
		return false
	}

	challenge := fitChallenge(vendor[packet.MSCHAPChallenge], req, crypt.V1ChallengeLength)
	expected := crypt.ChallengeResponse(challenge, crypt.NTPasswordHash(password))
	return crypt.CheckResponse(response[msNTResponseOffset:], expected)
}

func (e *Engine) verifyMSCHAPv2(req *packet.Packet, username, password string) bool {
	vendor := req.GetVendor(packet.VendorMicrosoft)
	response := vendor[packet.MSCHAP2Response]
	if len(response) != msResponseLength {
		return false
	}

	authChallenge := fitChallenge(vendor[packet.MSCHAPChallenge], req, crypt.PeerChallengeLength)
	peerChallenge := response[2 : 2+crypt.PeerChallengeLength]
	expected := crypt.NTResponseV2(authChallenge, peerChallenge, username, password)
	return crypt.CheckResponse(response[msNTResponseOffset:], expected)
}

// fitChallenge returns the vendor challenge truncated or zero-padded to size,
// falling back to the request authenticator when the NAS sent no challenge.
func fitChallenge(challenge []byte, req *packet.Packet, size int) []byte {
	if len(challenge) == 0 {
		challenge = req.Authenticator[:]
	}
	out := make([]byte, size)
	copy(out, challenge)
	return out
}

func (e *Engine) reject(ctx context.Context, req *packet.Packet, secret []byte, username, nasIP, method, reason string) *packet.Packet {
	e.sink.Emit(ctx, event.Event{
		Type:     event.TypeAuthFailure,
		Time:     time.Now(),
		Username: username,
		NASIP:    nasIP,
		Method:   method,
		Reason:   reason,
	})

	resp := packet.New(packet.CodeAccessReject, req.Identifier)
	resp.Sign(secret, req.Authenticator)
	return resp
}
