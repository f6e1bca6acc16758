// Package chassis serves the HTTP API on TCP and, when enabled, on HTTP/3
// over QUIC from the same port number.
//
// Without TLS only plain HTTP/1.1 on TCP is served. With HTTP3 set, TCP
// serves HTTP/1.1 + HTTP/2 over TLS, UDP serves HTTP/3, and every TCP
// response advertises the HTTP/3 endpoint through Alt-Svc. The MCP
// streamable endpoint rides along on both since it is a plain handler.
package chassis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

// Config holds configuration for the chassis server.
type Config struct {
	Addr     string // listen address, TCP and UDP share the port
	Handler  http.Handler
	HTTP3    bool   // enable TLS on TCP plus HTTP/3 on UDP
	CertFile string // empty = self-signed development certificate
	KeyFile  string
	Logger   *slog.Logger
}

// Server is the dual-transport server.
type Server struct {
	cfg    Config
	logger *slog.Logger
	tlsCfg *tls.Config

	mu    sync.Mutex
	tcp   *http.Server
	tcpLn net.Listener
	h3    *http3.Server
	udp   net.PacketConn
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Handler == nil {
		return nil, errors.New("chassis: nil handler")
	}
	s := &Server{cfg: cfg, logger: cfg.Logger}
	if cfg.HTTP3 {
		tlsCfg, selfSigned, err := loadTLS(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		if selfSigned {
			cfg.Logger.Warn("TLS: using a self-signed development certificate")
		}
		s.tlsCfg = tlsCfg
	}
	return s, nil
}

// securityHeaders adds headers suited to a JSON API.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// altSvc advertises HTTP/3 on port.
func altSvc(port int, next http.Handler) http.Handler {
	value := fmt.Sprintf(`h3=":%d"; ma=86400`, port)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", value)
		next.ServeHTTP(w, r)
	})
}

// Listen binds the TCP socket and, with HTTP/3, the UDP socket on the same
// port. It does not serve.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("TCP listen: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	handler := securityHeaders(s.cfg.Handler)
	if s.tlsCfg != nil {
		host, _, _ := net.SplitHostPort(s.cfg.Addr)
		udp, err := net.ListenPacket("udp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			ln.Close()
			return fmt.Errorf("UDP listen: %w", err)
		}
		s.udp = udp
		s.h3 = &http3.Server{
			Handler:   handler,
			TLSConfig: http3.ConfigureTLSConfig(s.tlsCfg.Clone()),
			QUICConfig: &quic.Config{
				MaxIdleTimeout:  5 * time.Minute,
				KeepAlivePeriod: 30 * time.Second,
			},
		}
		handler = altSvc(port, handler)
		tcpTLS := s.tlsCfg.Clone()
		tcpTLS.NextProtos = []string{"h2", "http/1.1"}
		ln = tls.NewListener(ln, tcpTLS)
	}

	s.tcpLn = ln
	s.tcp = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Addr returns the bound TCP address, nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tcpLn == nil {
		return nil
	}
	return s.tcpLn.Addr()
}

// Serve blocks until ctx is done or a listener fails. Call Listen first.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	tcp, ln, h3, udp := s.tcp, s.tcpLn, s.h3, s.udp
	s.mu.Unlock()
	if tcp == nil {
		return errors.New("chassis: Serve before Listen")
	}

	errCh := make(chan error, 2)
	go func() {
		if err := tcp.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("TCP: %w", err)
		}
	}()
	if h3 != nil {
		go func() {
			if err := h3.Serve(udp); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("HTTP/3: %w", err)
			}
		}()
	}

	s.logger.Info("chassis started", "addr", ln.Addr().String(), "tls", s.tlsCfg != nil, "http3", h3 != nil)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Start is Listen followed by Serve.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Stop gracefully shuts down both listeners.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	if s.tcp != nil {
		if err := s.tcp.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if s.h3 != nil {
		if err := s.h3.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.udp != nil {
		s.udp.Close()
	}
	s.logger.Info("chassis stopped")
	return firstErr
}
