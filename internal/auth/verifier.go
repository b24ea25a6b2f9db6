package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoCredentials is returned when neither a password nor a password hash
// has been configured for the admin account.
var ErrNoCredentials = errors.New("no admin credentials configured")

// Verifier checks operator credentials against the externally supplied pair.
// The comparison strategy is decided once at construction so the gate's
// state handling never needs to know how passwords are stored.
type Verifier struct {
	username     string
	passwordHash string // bcrypt hash, preferred
	password     string // plaintext fallback, compared in constant time
}

// NewVerifier builds a Verifier from configuration. Exactly one of hash or
// password must be non-empty; when both are set the hash wins.
func NewVerifier(username, passwordHash, password string) (*Verifier, error) {
	if username == "" {
		return nil, errors.New("admin username must be configured")
	}
	if passwordHash == "" && password == "" {
		return nil, ErrNoCredentials
	}
	if passwordHash != "" {
		// Fail at startup on a malformed hash instead of on first login
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, errors.New("admin password hash is not a valid bcrypt hash")
		}
	}
	return &Verifier{username: username, passwordHash: passwordHash, password: password}, nil
}

// Verify reports whether the supplied pair matches the configured admin
// credentials. Both fields must match exactly; username and plaintext
// password comparisons are constant-time.
func (v *Verifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1

	var passOK bool
	if v.passwordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	}

	return userOK && passOK
}
