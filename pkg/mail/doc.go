// Package mail opens authenticated SMTP sessions (implicit TLS, mandatory STARTTLS
// or opportunistic STARTTLS), composes alarm messages from template files and
// sends them over an open session.
package mail
