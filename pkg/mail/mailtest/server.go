// Package mailtest runs an in-process SMTP submission server for tests.
package mailtest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"math/big"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Mode selects how the server secures connections.
type Mode int

const (
	// ModePlain accepts AUTH without TLS and offers no STARTTLS.
	ModePlain Mode = iota
	// ModeImplicitTLS wraps the listener in TLS, like port 465.
	ModeImplicitTLS
	// ModeStartTLS offers STARTTLS and only allows AUTH after the upgrade, like port 587.
	ModeStartTLS
)

// Message is one accepted DATA payload.
type Message struct {
	From string
	To   []string
	Data []byte
	TLS  bool
}

// Server records messages accepted from authenticated clients.
type Server struct {
	Host string
	Port int

	username string
	password string

	mu       sync.Mutex
	messages []Message
	sessions int
	logouts  int
}

// NewServer starts a go-smtp server on a random loopback port. PLAIN auth is
// required when username is set. The server stops when the test ends.
func NewServer(t testing.TB, mode Mode, username, password string) *Server {
	t.Helper()

	s := &Server{Host: "127.0.0.1", username: username, password: password}
	srv := smtp.NewServer(s)
	srv.Domain = "localhost"
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	s.Port = ln.Addr().(*net.TCPAddr).Port

	tlsCfg := &tls.Config{Certificates: []tls.Certificate{Certificate(t)}}
	switch mode {
	case ModePlain:
		srv.AllowInsecureAuth = true
	case ModeImplicitTLS:
		ln = tls.NewListener(ln, tlsCfg)
	case ModeStartTLS:
		srv.TLSConfig = tlsCfg
	}

	go func() {
		_ = srv.Serve(ln)
	}()
	t.Cleanup(func() { _ = srv.Close() })
	return s
}

// NewSession implements smtp.Backend.
func (s *Server) NewSession(c *smtp.Conn) (smtp.Session, error) {
	s.mu.Lock()
	s.sessions++
	s.mu.Unlock()
	return &session{server: s, conn: c}, nil
}

// Messages returns a copy of everything accepted so far.
func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Sessions counts connections the server has seen.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

// Logouts counts connections that have been torn down.
func (s *Server) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

type session struct {
	server *Server
	conn   *smtp.Conn
	authed bool
	from   string
	to     []string
}

func (s *session) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *session) Auth(string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		if username != s.server.username || password != s.server.password {
			return errors.New("invalid username or password")
		}
		s.authed = true
		return nil
	}), nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	if s.server.username != "" && !s.authed {
		return &smtp.SMTPError{Code: 530, EnhancedCode: smtp.EnhancedCode{5, 7, 0}, Message: "Authentication required"}
	}
	s.from = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.to = append(s.to, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	_, isTLS := s.conn.TLSConnectionState()
	s.server.mu.Lock()
	s.server.messages = append(s.server.messages, Message{
		From: s.from,
		To:   append([]string(nil), s.to...),
		Data: data,
		TLS:  isTLS,
	})
	s.server.mu.Unlock()
	return nil
}

func (s *session) Reset() {
	s.from = ""
	s.to = nil
}

func (s *session) Logout() error {
	s.server.mu.Lock()
	s.server.logouts++
	s.server.mu.Unlock()
	return nil
}

// Certificate returns a throwaway self-signed certificate for localhost and 127.0.0.1.
func Certificate(t testing.TB) tls.Certificate {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}
