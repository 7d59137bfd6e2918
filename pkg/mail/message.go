package mail

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/telekom/alarm-trials/pkg/version"
)

const messageIDHeader = "Message-ID"

// Envelope holds the addressing shared by every message of a run.
type Envelope struct {
	From string
	To   []string
	// Subject is a text/template evaluated against SubjectData.
	Subject string
}

// SubjectData is available to subject templates.
type SubjectData struct {
	Template string
	Path     string
	Index    int
	Time     time.Time
}

// RenderSubject evaluates a subject template with the sprig function set.
// Plain subjects are returned unchanged.
func RenderSubject(tmpl string, data SubjectData) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}
	t, err := template.New("subject").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse subject template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute subject template: %w", err)
	}
	// a header value must stay on one line
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// NewMessageID returns a globally unique "<uuid@domain>" identifier.
func NewMessageID(domain string) string {
	if domain == "" {
		domain = localDomain()
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

func domainOf(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	return strings.TrimSuffix(addr[at+1:], ">")
}

func localDomain() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "localhost"
}

// Compose builds a plain text message. The body is sent 8bit without any
// re-encoding, so it reaches the recipient byte for byte.
func Compose(env Envelope, subject, body string, now time.Time) *gomail.Message {
	m := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded), gomail.SetCharset("UTF-8"))
	m.SetHeader("Subject", subject)
	m.SetHeader("From", env.From)
	if len(env.To) > 0 {
		m.SetHeader("To", env.To...)
	}
	m.SetHeader(messageIDHeader, NewMessageID(domainOf(env.From)))
	m.SetDateHeader("Date", now)
	m.SetHeader("X-Mailer", version.Mailer())
	m.SetBody("text/plain", body)
	return m
}

// ComposeFile reads the template at path and composes the index-th message of a run.
func ComposeFile(env Envelope, path string, index int, now time.Time) (*gomail.Message, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alarm template: %w", err)
	}
	subject, err := RenderSubject(env.Subject, SubjectData{
		Template: filepath.Base(path),
		Path:     path,
		Index:    index,
		Time:     now,
	})
	if err != nil {
		return nil, err
	}
	return Compose(env, subject, string(content), now), nil
}

// MessageID returns the Message-ID header of a composed message.
func MessageID(m *gomail.Message) string {
	if ids := m.GetHeader(messageIDHeader); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// Render returns the complete message as it goes over the wire.
func Render(m *gomail.Message) (string, error) {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to render message: %w", err)
	}
	return buf.String(), nil
}
