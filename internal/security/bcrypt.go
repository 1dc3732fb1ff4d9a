package security

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements model.Hasher via bcrypt. Cost is configurable
// so environments can trade verification latency for hardness.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-based hasher, falling back to the
// library default cost for non-positive values.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Compare(digest, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
}
