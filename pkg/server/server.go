// Package server runs the UDP listeners and hands each datagram to a
// protocol handler. One goroutine per datagram; no state is shared between
// requests, so a slow store call delays only its own response.
package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/telcokit/radiusd/pkg/log"
	"github.com/telcokit/radiusd/pkg/packet"
)

// Handler decides one request packet. A nil response means the datagram is
// absorbed without a reply.
type Handler interface {
	Handle(ctx context.Context, req *packet.Packet, srcIP string) *packet.Packet
}

// Server is a RADIUS UDP listener bound to one port.
type Server struct {
	addr    string
	conn    *net.UDPConn
	handler Handler
	logger  log.Logger
	mu      sync.RWMutex
	ready   chan struct{}
}

// New creates a server for the given listen address.
func New(addr string, handler Handler, logger log.Logger) *Server {
	return &Server{
		addr:    addr,
		handler: handler,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// ListenAndServe binds the socket and processes datagrams until Close.
func (s *Server) ListenAndServe() error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return err
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	close(s.ready)
	s.mu.Unlock()

	s.logger.Infof("listening on %s", conn.LocalAddr())

	buffer := make([]byte, packet.MaxPacketLength)

	for {
		n, clientAddr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Errorf("read error: %v", err)
			continue
		}

		data := append([]byte(nil), buffer[:n]...)
		go s.handlePacket(data, clientAddr)
	}
}

// Addr returns the bound address once the listener is up.
func (s *Server) Addr() net.Addr {
	<-s.ready
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Close stops the listener.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Server) handlePacket(data []byte, clientAddr *net.UDPAddr) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("panic handling request from %s: %v", clientAddr, r)
		}
	}()

	pkt, err := packet.Decode(data)
	if err != nil {
		// Unreadable header: drop silently, nothing to answer
		s.logger.WithFields(log.Fields{"client": clientAddr.String()}).Debugf("dropping undecodable datagram: %v", err)
		return
	}

	if !pkt.Code.IsRequest() {
		s.logger.WithFields(log.Fields{
			"client": clientAddr.String(),
			"code":   pkt.Code.String(),
		}).Debug("dropping non-request packet")
		return
	}

	resp := s.handler.Handle(context.Background(), pkt, clientAddr.IP.String())
	if resp == nil {
		return
	}

	respData, err := resp.Encode()
	if err != nil {
		s.logger.Errorf("encode response for %s: %v", clientAddr, err)
		return
	}

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if _, err := conn.WriteToUDP(respData, clientAddr); err != nil {
		s.logger.Errorf("send response to %s: %v", clientAddr, err)
	}
}
