package auth

import (
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost  int
	decoy []byte
}

// NewHasher returns a Hasher using cost. It also prepares a decoy hash so
// that a failed lookup can spend the same time as a real comparison.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	secret := common.GenerateRandByteArray(32)
	defer common.WipeByteArray(secret)

	decoy, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}

	return &Hasher{cost: cost, decoy: decoy}, nil
}

// Hash returns the bcrypt encoding of password (algorithm, cost and salt
// included). Passwords longer than 72 bytes are rejected.
func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash. Malformed hashes yield false.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyDummy burns one comparison against the decoy hash. It always
// reports false.
func (h *Hasher) VerifyDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(password))
	return false
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int { return h.cost }
