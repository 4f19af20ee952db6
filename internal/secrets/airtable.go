package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the engine's secrets in the OS keychain.
const KeyringService = "recruitscan"

// The Airtable API key never lives in the config file; the shell sets it
// once through the secrets endpoint and it stays in the keychain.

func GetAirtableKey(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("airtable keyring account is empty")
	}
	key, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(key) == "" {
		return "", errors.New("airtable API key not found in keychain")
	}
	return key, nil
}

func SetAirtableKey(account, key string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, account, key)
}

func DeleteAirtableKey(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
