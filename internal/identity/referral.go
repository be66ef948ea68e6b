package identity

import (
	"fmt"
	"math/rand/v2"
)

const referralPrefix = "BR"

// NewReferralCode generates a short share code of the form BR1000-BR9999.
// The code is a cosmetic identifier, never a lookup key, so collisions
// between users are tolerated rather than prevented.
func NewReferralCode() string {
	return fmt.Sprintf("%s%d", referralPrefix, 1000+rand.IntN(9000))
}
