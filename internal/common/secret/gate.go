// Package secret holds the shared-secret check that gates every entry point.
package secret

import (
	"crypto/subtle"
	"errors"
)

var ErrInvalidSecret = errors.New("secret is not valid")

// Gate compares caller-supplied tokens against the process-wide secret.
type Gate struct {
	secret []byte
}

func NewGate(configured string) *Gate {
	return &Gate{secret: []byte(configured)}
}

// Check returns ErrInvalidSecret unless token equals the configured secret.
// An empty configured secret never matches.
func (g *Gate) Check(token string) error {
	if g == nil || len(g.secret) == 0 {
		return ErrInvalidSecret
	}
	if subtle.ConstantTimeCompare(g.secret, []byte(token)) != 1 {
		return ErrInvalidSecret
	}
	return nil
}
