package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNoAccessKey is returned when a secret is stored without an access key id.
var ErrNoAccessKey = errors.New("config: AWS_ACCESS_KEY_ID is required to store a secret")

// StoreSecret saves the S3 secret for accessKeyID in the system keyring.
func StoreSecret(accessKeyID, secret string) error {
	if accessKeyID == "" {
		return ErrNoAccessKey
	}
	if err := keyring.Set(AppName, accessKeyID, secret); err != nil {
		return fmt.Errorf("saving secret to keyring: %w", err)
	}
	return nil
}

// ResolveSecret fills AWSSecretAccessKey from the keyring when only the
// access key id was configured. A missing keyring entry is not an error; the
// AWS default chain gets a chance later.
func (c *Config) ResolveSecret() error {
	if c.AWSSecretAccessKey != "" || c.AWSAccessKeyID == "" {
		return nil
	}
	secret, err := keyring.Get(AppName, c.AWSAccessKeyID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading secret from keyring: %w", err)
	}
	c.AWSSecretAccessKey = secret
	return nil
}
