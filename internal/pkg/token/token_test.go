//go:build unit

package token_test

import (
	"testing"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmationNumber(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		cn, err := token.NewConfirmationNumber()
		require.NoError(t, err)

		assert.Len(t, cn, token.ConfirmationLength)
		for _, r := range cn {
			isUpper := r >= 'A' && r <= 'Z'
			isDigit := r >= '0' && r <= '9'
			assert.True(t, isUpper || isDigit, "unexpected character %q in %s", r, cn)
		}
	})

	t.Run("every alphabet character is reachable", func(t *testing.T) {
		// 500 draws of 10 characters make a missing letter or digit
		// astronomically unlikely under uniform sampling.
		seen := make(map[rune]struct{})
		for range 500 {
			cn, err := token.NewConfirmationNumber()
			require.NoError(t, err)
			for _, r := range cn {
				seen[r] = struct{}{}
			}
		}
		assert.Len(t, seen, 36)
	})

	t.Run("no trivial collisions", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			cn, err := token.NewConfirmationNumber()
			require.NoError(t, err)
			_, dup := seen[cn]
			require.False(t, dup, "duplicate confirmation number %s", cn)
			seen[cn] = struct{}{}
		}
	})
}
