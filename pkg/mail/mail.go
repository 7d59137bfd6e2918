package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/telekom/alarm-trials/pkg/config"
	"github.com/telekom/alarm-trials/pkg/metrics"
	"github.com/telekom/alarm-trials/pkg/system"
)

// Dialer opens one authenticated SMTP session per Dial call.
type Dialer struct {
	server  config.Server
	account config.Account
	log     *zap.SugaredLogger
}

func NewDialer(server config.Server, account config.Account, log *zap.SugaredLogger) *Dialer {
	if server.LocalName == "" {
		server.LocalName = config.DefaultLocalName
	}
	if server.Security == "" {
		server.Security = config.SecurityTLS
	}
	log = log.Named("mail")
	log.Debugw("Initializing mail dialer", append(system.HostFields(server.Host, server.Port, account.Username),
		"security", server.Security)...)
	if server.SkipVerify() {
		log.Debug("InsecureSkipVerify is enabled for mail TLS connection")
	}
	return &Dialer{server: server, account: account, log: log}
}

func (d *Dialer) Host() string {
	return d.server.Host
}

func (d *Dialer) Port() int {
	return d.server.Port
}

// Dial connects, greets, secures and authenticates. The returned session must be
// closed by the caller. Nothing is retried.
func (d *Dialer) Dial(ctx context.Context) (gomail.SendCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.log.Infof("Connecting to server as %s on %s", d.account.Username, d.server.Address())

	var (
		sc  gomail.SendCloser
		err error
	)
	switch d.server.Security {
	case config.SecurityTLS, config.SecurityStartTLS:
		sc, err = d.dialSMTP()
	case config.SecurityOpportunistic:
		sc, err = d.dialOpportunistic()
	default:
		err = fmt.Errorf("unknown security mode %q", d.server.Security)
	}
	if err != nil {
		metrics.SessionFailures.WithLabelValues(d.server.Host).Inc()
		return nil, err
	}

	metrics.SessionsOpened.WithLabelValues(d.server.Host).Inc()
	d.log.Info("Logged in")
	return sc, nil
}

func (d *Dialer) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         d.server.Host,
		InsecureSkipVerify: d.server.SkipVerify(), // #nosec G402 -- opt-in for self-signed test servers
	}
}

func (d *Dialer) dialSMTP() (*session, error) {
	addr := d.server.Address()

	var (
		c   *smtp.Client
		err error
	)
	if d.server.Security == config.SecurityStartTLS {
		c, err = smtp.DialStartTLS(addr, d.tlsConfig())
		if err != nil {
			return nil, startTLSError(addr, d.server.Host, err)
		}
		d.log.Debug("Connection upgraded with STARTTLS")
	} else {
		c, err = smtp.DialTLS(addr, d.tlsConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
		}
	}

	if err := d.handshake(c); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &session{client: c, host: d.server.Host, log: d.log}, nil
}

// startTLSError tells a server without STARTTLS apart from a connection that
// never came up. go-smtp reports the missing extension as plain text only.
func startTLSError(addr, host string, err error) error {
	var opErr *net.OpError
	if !errors.As(err, &opErr) && strings.Contains(err.Error(), "STARTTLS") {
		return fmt.Errorf("server %s does not offer STARTTLS: %w", host, err)
	}
	return fmt.Errorf("failed to connect to %s with STARTTLS: %w", addr, err)
}

// handshake greets the server again after any TLS upgrade and logs in.
func (d *Dialer) handshake(c *smtp.Client) error {
	if err := c.Hello(d.server.LocalName); err != nil {
		return fmt.Errorf("EHLO to %s failed: %w", d.server.Host, err)
	}

	// an empty username means an unauthenticated relay
	if d.account.Username == "" {
		return nil
	}
	auth := sasl.NewPlainClient("", d.account.Username, d.account.Password)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("login as %s on %s failed: %w", d.account.Username, d.server.Host, err)
	}
	return nil
}

// dialOpportunistic hands the connection to gomail, which upgrades with STARTTLS
// only when the server advertises it.
func (d *Dialer) dialOpportunistic() (gomail.SendCloser, error) {
	gd := gomail.NewDialer(d.server.Host, d.server.Port, d.account.Username, d.account.Password)
	gd.SSL = false
	gd.TLSConfig = d.tlsConfig()
	gd.LocalName = d.server.LocalName

	sc, err := gd.Dial()
	if err != nil {
		return nil, fmt.Errorf("failed to open session with %s: %w", d.server.Address(), err)
	}
	return &relaySession{SendCloser: sc, log: d.log}, nil
}
