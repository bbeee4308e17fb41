// Package token generates opaque confirmation numbers used as external
// reference keys for orders, payments and shipping records.
package token

import (
	"crypto/rand"
	"math/big"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
)

const (
	alphabet           = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ConfirmationLength = 10
)

var alphabetSize = big.NewInt(int64(len(alphabet)))

// NewConfirmationNumber returns a fresh 10-character uppercase alphanumeric
// token. Each position is drawn with rand.Int so the distribution over the
// alphabet is uniform. Uniqueness is probabilistic, not guaranteed; callers
// must treat a key collision on insert as retryable.
func NewConfirmationNumber() (string, error) {
	buf := make([]byte, ConfirmationLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", errs.Wrap(err, "failed to read random bytes")
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
