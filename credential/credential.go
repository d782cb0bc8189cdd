// Package credential defines the static and time-bounded credential
// records the signer and credential providers operate on.
package credential

import "time"

// Credential is a secret id/key pair plus an optional session token.
type Credential struct {
	SecretID  string
	SecretKey string
	Token     string
}

// New builds a static Credential with no session token.
func New(secretID, secretKey string) Credential {
	return Credential{SecretID: secretID, SecretKey: secretKey}
}

// NewWithToken builds a Credential carrying a session token, as returned
// by STS/OIDC exchange or instance metadata.
func NewWithToken(secretID, secretKey, token string) Credential {
	return Credential{SecretID: secretID, SecretKey: secretKey, Token: token}
}

// IsEmpty reports whether the credential is unusable for signing: either
// SecretID or SecretKey is blank.
func (c Credential) IsEmpty() bool {
	return c.SecretID == "" || c.SecretKey == ""
}

// Expiring extends Credential with an expiration instant.
type Expiring struct {
	Credential
	Expiration time.Time
}

// NewExpiring builds an Expiring credential.
func NewExpiring(cred Credential, expiration time.Time) Expiring {
	return Expiring{Credential: cred, Expiration: expiration}
}

// IsExpiring reports whether the credential will expire within within of
// now.
func (e Expiring) IsExpiring(now time.Time, within time.Duration) bool {
	return e.Expiration.Sub(now) < within
}
