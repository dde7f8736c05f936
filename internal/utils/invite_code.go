package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/hiromasa-t/project-collab-api/internal/constants"
)

// GenerateInviteCode generates a random alphanumeric invite code.
// Uniqueness among live invites is enforced by the store's unique index,
// not here; callers retry on collision.
func GenerateInviteCode() (string, error) {
	alphabet := constants.InviteCodeAlphabet
	max := big.NewInt(int64(len(alphabet)))

	code := make([]byte, constants.InviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		code[i] = alphabet[n.Int64()]
	}

	return string(code), nil
}
