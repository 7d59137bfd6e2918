package mail

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/telekom/alarm-trials/pkg/metrics"
)

// Delivery records one message accepted by the server.
type Delivery struct {
	Path      string    `json:"path" yaml:"path"`
	MessageID string    `json:"messageId" yaml:"messageId"`
	Subject   string    `json:"subject" yaml:"subject"`
	SentAt    time.Time `json:"sentAt" yaml:"sentAt"`
}

// AlarmSender sends template files over one open session.
type AlarmSender struct {
	session  gomail.Sender
	envelope Envelope
	host     string
	out      io.Writer
	log      *zap.SugaredLogger
	now      func() time.Time
	count    int
}

// NewAlarmSender returns a sender that prints every rendered message to out
// before transmitting it.
func NewAlarmSender(session gomail.Sender, env Envelope, host string, out io.Writer, log *zap.SugaredLogger) *AlarmSender {
	if out == nil {
		out = io.Discard
	}
	return &AlarmSender{
		session:  session,
		envelope: env,
		host:     host,
		out:      out,
		log:      log.Named("mail"),
		now:      time.Now,
	}
}

// SendFile reads the template at path and sends it as one message. A template
// that cannot be read fails before anything is transmitted.
func (s *AlarmSender) SendFile(path string) (Delivery, error) {
	s.log.Infow("Sending mail", "template", path)

	now := s.now()
	msg, err := ComposeFile(s.envelope, path, s.count+1, now)
	if err != nil {
		metrics.MailFailed.WithLabelValues(s.host).Inc()
		return Delivery{}, fmt.Errorf("cannot send %s: %w", path, err)
	}
	s.count++

	rendered, err := Render(msg)
	if err != nil {
		metrics.MailFailed.WithLabelValues(s.host).Inc()
		return Delivery{}, err
	}
	_, _ = fmt.Fprintln(s.out, rendered)

	// the envelope goes out as configured; login names without a domain are valid senders
	if err := s.session.Send(s.envelope.From, s.envelope.To, strings.NewReader(rendered)); err != nil {
		metrics.MailFailed.WithLabelValues(s.host).Inc()
		s.log.Errorw("Failed to send mail", "template", path, "error", err)
		return Delivery{}, fmt.Errorf("failed to send %s: %w", path, err)
	}

	d := Delivery{
		Path:      path,
		MessageID: MessageID(msg),
		Subject:   msg.GetHeader("Subject")[0],
		SentAt:    now,
	}
	metrics.MailSent.WithLabelValues(s.host).Inc()
	s.log.Infow("Mail sent", "messageID", d.MessageID)
	return d, nil
}
