// Package hash provides the bcrypt-backed password hasher.
package hash

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements ports.Hasher with bcrypt digests.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using the given cost, or bcrypt's default
// when cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
