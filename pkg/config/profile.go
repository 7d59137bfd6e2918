// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

import "os"

// Profile carries the defaults of one alarm flow.
type Profile struct {
	Name               string
	Port               int
	Security           Security
	InsecureSkipVerify bool
	// Env variable names, first set variable wins.
	HostEnv     []string
	UsernameEnv []string
	PasswordEnv []string
	// FallbackHost is used when neither config nor environment name a host.
	FallbackHost string
}

var (
	// BurstProfile sends several alarms over implicit TLS. Certificates are not
	// verified, test mail servers commonly run with self-signed certificates.
	BurstProfile = Profile{
		Name:               "burst",
		Port:               465,
		Security:           SecurityTLS,
		InsecureSkipVerify: true,
		HostEnv:            []string{"EM_IMAP_HOST"},
		UsernameEnv:        []string{"EM_IMAP_USERNAME"},
		PasswordEnv:        []string{"EM_IMAP_PASSWORD"},
	}

	// SingleProfile sends one alarm on the submission port after a STARTTLS upgrade.
	SingleProfile = Profile{
		Name:         "single",
		Port:         587,
		Security:     SecurityStartTLS,
		HostEnv:      []string{"EM_SMTP_HOST", "EM_IMAP_HOST"},
		UsernameEnv:  []string{"EM_SMTP_USERNAME", "EM_IMAP_USERNAME"},
		PasswordEnv:  []string{"EM_SMTP_PASSWORD", "EM_IMAP_PASSWORD"},
		FallbackHost: "localhost",
	}

	DefaultCandidates = []string{
		"examples/emergency_bgebg.txt",
		"examples/emergency_many_units.txt",
	}

	DefaultSingleFile = "examples/emergency_bgebg.txt"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Apply fills every field left empty by the config file: first from the
// environment, then from the profile defaults.
func (c *Config) Apply(p Profile, lookup LookupFunc) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if c.Server.Host == "" {
		c.Server.Host = firstEnv(lookup, p.HostEnv)
	}
	if c.Server.Host == "" {
		c.Server.Host = p.FallbackHost
	}
	if c.Account.Username == "" {
		c.Account.Username = firstEnv(lookup, p.UsernameEnv)
	}
	if c.Account.Password == "" {
		c.Account.Password = firstEnv(lookup, p.PasswordEnv)
	}

	if c.Server.Port == 0 {
		c.Server.Port = p.Port
	}
	if c.Server.Security == "" {
		c.Server.Security = p.Security
	}
	if c.Server.InsecureSkipVerify == nil {
		skip := p.InsecureSkipVerify
		c.Server.InsecureSkipVerify = &skip
	}
	if c.Server.LocalName == "" {
		c.Server.LocalName = DefaultLocalName
	}

	// sender and recipient are the same account
	if c.Message.Subject == "" {
		c.Message.Subject = DefaultSubject
	}
	if c.Message.From == "" {
		c.Message.From = c.Account.Username
	}
	if len(c.Message.To) == 0 && c.Account.Username != "" {
		c.Message.To = []string{c.Account.Username}
	}

	if len(c.Burst.Candidates) == 0 {
		c.Burst.Candidates = append([]string(nil), DefaultCandidates...)
	}
	if c.Burst.Count == nil {
		n := DefaultCount
		c.Burst.Count = &n
	}
	if c.Single.File == "" {
		c.Single.File = DefaultSingleFile
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = DefaultJob
	}
}

func firstEnv(lookup LookupFunc, keys []string) string {
	for _, key := range keys {
		if val, ok := lookup(key); ok && val != "" {
			return val
		}
	}
	return ""
}
