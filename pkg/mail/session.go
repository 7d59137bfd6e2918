package mail

import (
	"errors"
	"fmt"
	"io"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var errSessionClosed = errors.New("mail session already closed")

// session is an authenticated go-smtp client. It implements gomail.SendCloser so
// it is interchangeable with gomail's own relay sessions.
type session struct {
	client *smtp.Client
	host   string
	log    *zap.SugaredLogger
	closed bool
}

var _ gomail.SendCloser = (*session)(nil)

func (s *session) Send(from string, to []string, msg io.WriterTo) error {
	if s.closed {
		return errSessionClosed
	}
	if err := s.transaction(from, to, msg); err != nil {
		// leave the session usable for the next message
		_ = s.client.Reset()
		return err
	}
	return nil
}

func (s *session) transaction(from string, to []string, msg io.WriterTo) error {
	if err := s.client.Mail(from, nil); err != nil {
		return fmt.Errorf("MAIL FROM:<%s> rejected: %w", from, err)
	}
	for _, rcpt := range to {
		if err := s.client.Rcpt(rcpt, nil); err != nil {
			return fmt.Errorf("RCPT TO:<%s> rejected: %w", rcpt, err)
		}
	}
	w, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := msg.WriteTo(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected by %s: %w", s.host, err)
	}
	return nil
}

// TLS reports whether the session runs over TLS.
func (s *session) TLS() bool {
	_, ok := s.client.TLSConnectionState()
	return ok
}

// Close sends QUIT and drops the socket if the server does not answer. Calling it
// twice is a no-op.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Info("Terminating connection")
	if err := s.client.Quit(); err != nil {
		_ = s.client.Close()
		return fmt.Errorf("failed to terminate session with %s: %w", s.host, err)
	}
	return nil
}

// relaySession wraps a gomail dialer session with the same close semantics.
type relaySession struct {
	gomail.SendCloser
	log    *zap.SugaredLogger
	closed bool
}

func (r *relaySession) Send(from string, to []string, msg io.WriterTo) error {
	if r.closed {
		return errSessionClosed
	}
	return r.SendCloser.Send(from, to, msg)
}

func (r *relaySession) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.log.Info("Terminating connection")
	return r.SendCloser.Close()
}
