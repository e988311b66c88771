package middleware

import (
	"context"
	"crypto/sha256"
	"sync"

	"github.com/2beens/formcheck/pkg"
)

// BcryptSecretChecker validates client secrets against a bcrypt hash.
// Accepted secrets are remembered by digest, so the costly comparison runs once per secret.
type BcryptSecretChecker struct {
	hash string

	mu       sync.RWMutex
	accepted map[[sha256.Size]byte]bool
}

func NewBcryptSecretChecker(hash string) *BcryptSecretChecker {
	return &BcryptSecretChecker{
		hash:     hash,
		accepted: make(map[[sha256.Size]byte]bool),
	}
}

func (c *BcryptSecretChecker) IsValid(_ context.Context, secret string) (bool, error) {
	digest := sha256.Sum256([]byte(secret))

	c.mu.RLock()
	ok := c.accepted[digest]
	c.mu.RUnlock()
	if ok {
		return true, nil
	}

	if !pkg.CheckSecretHash(secret, c.hash) {
		return false, nil
	}

	c.mu.Lock()
	c.accepted[digest] = true
	c.mu.Unlock()

	return true, nil
}
