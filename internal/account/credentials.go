package account

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials hashes passwords at registration and verifies them at login.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// Bcrypt stores bcrypt hashes. A zero Cost means bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (Bcrypt) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// Plaintext keeps passwords as-is. Only for stores written by the old client.
type Plaintext struct{}

func (Plaintext) Hash(password string) (string, error) { return password, nil }

func (Plaintext) Verify(stored, password string) bool { return stored == password }

// CredentialsFor maps a config scheme name to an implementation.
func CredentialsFor(scheme string) (Credentials, error) {
	switch scheme {
	case "", "bcrypt":
		return Bcrypt{}, nil
	case "plain", "plaintext":
		return Plaintext{}, nil
	}
	return nil, fmt.Errorf("unknown password scheme %q", scheme)
}
