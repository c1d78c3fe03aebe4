// Package auth persists the sync server access token in the system keyring.
package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	service = "syncwatch"
	user    = "access-token"
)

// SetToken persists the sync server access token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken retrieves the sync server access token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// Token returns the stored access token, or an empty string when none has been saved.
func Token() (string, error) {
	token, err := GetToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// DeleteToken removes the sync server access token from the system keyring.
func DeleteToken() error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
