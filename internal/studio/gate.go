package studio

import "crypto/subtle"

// IncorrectPassword is shown after a failed gate attempt.
const IncorrectPassword = "Incorrect password. Please try again."

// Gate is a shared-secret prompt in front of the studio. It keeps casual
// visitors out and nothing more.
type Gate struct {
	secret []byte
}

// NewGate returns a gate for secret. An empty secret disables the gate.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Enabled reports whether a password is required.
func (g *Gate) Enabled() bool {
	return g != nil && len(g.secret) > 0
}

// Check compares attempt against the secret.
func (g *Gate) Check(attempt string) bool {
	if !g.Enabled() {
		return true
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(attempt)) == 1
}
