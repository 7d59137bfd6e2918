package config

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

// SecretGetter matches keyring.Get.
type SecretGetter func(service, user string) (string, error)

// ResolvePassword reads the account password from the OS keychain when none was
// configured and a keyring service is set. A nil getter uses the system keychain.
func (c *Config) ResolvePassword(get SecretGetter) error {
	if c.Account.Password != "" || c.Account.KeyringService == "" {
		return nil
	}
	if get == nil {
		get = keyring.Get
	}
	password, err := get(c.Account.KeyringService, c.Account.Username)
	if err != nil {
		return fmt.Errorf("failed to read password for %q from keyring service %q: %w",
			c.Account.Username, c.Account.KeyringService, err)
	}
	c.Account.Password = password
	return nil
}
