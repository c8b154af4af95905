package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// ServiceCredentials authenticates the single configured service client.
type ServiceCredentials struct {
	ClientID   string
	SecretHash string
}

// Enabled reports whether a service client is configured.
func (c ServiceCredentials) Enabled() bool {
	return c.ClientID != "" && c.SecretHash != ""
}

// Authenticate verifies clientID and secret and returns the service principal.
func (c ServiceCredentials) Authenticate(clientID, secret string) (Principal, error) {
	if !c.Enabled() {
		return Principal{}, ErrCredentialsDisabled
	}
	if subtle.ConstantTimeCompare([]byte(clientID), []byte(c.ClientID)) != 1 {
		return Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.SecretHash), []byte(secret)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Service: true, ClientID: c.ClientID}, nil
}
