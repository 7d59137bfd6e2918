// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
)

// Security selects how the SMTP transport is secured.
type Security string

const (
	// SecurityTLS dials with implicit TLS (SMTPS, usually port 465).
	SecurityTLS Security = "tls"
	// SecurityStartTLS dials in plaintext and requires a STARTTLS upgrade (usually port 587).
	SecurityStartTLS Security = "starttls"
	// SecurityOpportunistic upgrades with STARTTLS only when the server offers it.
	SecurityOpportunistic Security = "opportunistic"
)

// Securities lists the accepted Security values.
var Securities = []Security{SecurityTLS, SecurityStartTLS, SecurityOpportunistic}

const (
	DefaultSubject   = "Alarm"
	DefaultLocalName = "localhost"
	DefaultJob       = "alarmctl"
	DefaultCount     = 2
)

type Config struct {
	Server  Server  `yaml:"server,omitempty"`
	Account Account `yaml:"account,omitempty"`
	Message Message `yaml:"message,omitempty"`
	Burst   Burst   `yaml:"burst,omitempty"`
	Single  Single  `yaml:"single,omitempty"`
	Metrics Metrics `yaml:"metrics,omitempty"`
}

type Server struct {
	Host     string   `yaml:"host,omitempty"`
	Port     int      `yaml:"port,omitempty"`
	Security Security `yaml:"security,omitempty"`
	// InsecureSkipVerify is a pointer so an unset value can take the profile default.
	InsecureSkipVerify *bool  `yaml:"insecure-skip-verify,omitempty"`
	LocalName          string `yaml:"local-name,omitempty"`
}

// SkipVerify reports whether certificate verification is disabled.
func (s Server) SkipVerify() bool {
	return s.InsecureSkipVerify != nil && *s.InsecureSkipVerify
}

// Address returns host:port.
func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Account struct {
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	// KeyringService names the OS keychain entry consulted when no password is configured.
	KeyringService string `yaml:"keyring-service,omitempty"`
}

type Message struct {
	// Subject is a text/template with sprig functions; the default renders as "Alarm".
	Subject string   `yaml:"subject,omitempty"`
	From    string   `yaml:"from,omitempty"`
	To      []string `yaml:"to,omitempty"`
}

type Burst struct {
	Candidates []string `yaml:"candidates,omitempty"`
	// Count is a pointer so an explicit 0 (log in, send nothing) is kept.
	Count *int `yaml:"count,omitempty"`
	// Seed makes the template choice reproducible; 0 picks a random seed.
	Seed uint64 `yaml:"seed,omitempty"`
	// Pace limits sends per second; 0 sends in immediate succession.
	Pace float64 `yaml:"pace,omitempty"`
}

// Alarms returns the number of alarms to send, DefaultCount when unset.
func (b Burst) Alarms() int {
	if b.Count == nil {
		return DefaultCount
	}
	return *b.Count
}

type Single struct {
	File string `yaml:"file,omitempty"`
}

type Metrics struct {
	PushGateway string `yaml:"pushgateway,omitempty"`
	Job         string `yaml:"job,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Message: Message{Subject: DefaultSubject},
		Metrics: Metrics{Job: DefaultJob},
	}
}

// Load reads the YAML config at path. The file must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadIfExists behaves like Load but returns DefaultConfig when path does not exist.
func LoadIfExists(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		def := DefaultConfig()
		return &def, nil
	}
	return cfg, err
}

// Validate checks the transport settings. Credentials are deliberately not checked:
// missing values are handed to the mail library, which reports the failure.
func (c *Config) Validate() error {
	if c.Server.Security != "" && !slices.Contains(Securities, c.Server.Security) {
		return fmt.Errorf("unknown security mode %q (want one of %v)", c.Server.Security, Securities)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if n := c.Burst.Alarms(); n < 0 {
		return fmt.Errorf("burst count must not be negative, got %d", n)
	}
	if c.Burst.Pace < 0 {
		return fmt.Errorf("burst pace must not be negative, got %v", c.Burst.Pace)
	}
	return nil
}
