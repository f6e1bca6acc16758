package chassis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func hello() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
}

func TestSelfSignedCert(t *testing.T) {
	now := time.Now()
	cert, err := selfSignedCert(now)
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatal(err)
	}
	if leaf.Subject.CommonName != "localhost" {
		t.Errorf("CN = %q", leaf.Subject.CommonName)
	}
	if leaf.NotAfter.Sub(now) < 89*24*time.Hour {
		t.Errorf("NotAfter too early: %v", leaf.NotAfter)
	}
	if err := leaf.VerifyHostname("localhost"); err != nil {
		t.Errorf("hostname: %v", err)
	}
}

func TestLoadTLS(t *testing.T) {
	cfg, selfSigned, err := loadTLS("", "")
	if err != nil {
		t.Fatal(err)
	}
	if !selfSigned {
		t.Error("expected self-signed")
	}
	if cfg.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %x", cfg.MinVersion)
	}
	if cfg.NextProtos[0] != "h3" {
		t.Errorf("NextProtos = %v", cfg.NextProtos)
	}

	if _, _, err := loadTLS("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Error("expected error for missing files")
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	securityHeaders(hello()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestAltSvc(t *testing.T) {
	rec := httptest.NewRecorder()
	altSvc(8421, hello()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if got := rec.Header().Get("Alt-Svc"); got != `h3=":8421"; ma=86400` {
		t.Errorf("Alt-Svc = %q", got)
	}
}

func TestNew_NilHandler(t *testing.T) {
	if _, err := New(Config{Addr: ":0"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestServe_BeforeListen(t *testing.T) {
	s, err := New(Config{Addr: "127.0.0.1:0", Handler: hello()})
	if err != nil {
		t.Fatal(err)
	}
	if s.Addr() != nil {
		t.Error("Addr before Listen should be nil")
	}
	if err := s.Serve(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func startServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Listen(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		s.Stop(stopCtx)
	})
	return s
}

func TestPlainHTTP(t *testing.T) {
	s := startServer(t, Config{Addr: "127.0.0.1:0", Handler: hello()})

	resp, err := http.Get(fmt.Sprintf("http://%s/", s.Addr()))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if resp.Header.Get("Alt-Svc") != "" {
		t.Error("plain HTTP must not advertise HTTP/3")
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestTLSAdvertisesHTTP3(t *testing.T) {
	s := startServer(t, Config{Addr: "127.0.0.1:0", Handler: hello(), HTTP3: true})

	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	resp, err := client.Get(fmt.Sprintf("https://%s/", s.Addr()))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.TLS == nil {
		t.Fatal("expected TLS connection")
	}
	alt := resp.Header.Get("Alt-Svc")
	if !strings.HasPrefix(alt, `h3=":`) {
		t.Errorf("Alt-Svc = %q", alt)
	}
}
