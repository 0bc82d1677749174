package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestULIDGeneratorProducesUniqueIDs(t *testing.T) {
	gen := NewULIDGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.Generate()
		assert.Len(t, id, 26)
		assert.False(t, seen[id], "duplicate ULID %s", id)
		seen[id] = true
	}
}

func TestAccountNumberFormat(t *testing.T) {
	gen := NewAccountNumberGenerator()

	for i := 0; i < 100; i++ {
		number := gen.Generate()

		assert.True(t, strings.HasPrefix(number, accountNumberPrefix))
		assert.Len(t, number, len(accountNumberPrefix)+accountSuffixLength)

		suffix := strings.TrimPrefix(number, accountNumberPrefix)
		for _, c := range suffix {
			isUpperAlnum := (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')
			assert.True(t, isUpperAlnum, "unexpected character %q in %s", c, number)
		}
	}
}
