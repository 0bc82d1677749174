package postgres

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based transaction record IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

const (
	accountNumberPrefix = "ACC"
	accountSuffixLength = 17
)

// AccountNumberGenerator generates human-facing account numbers: a fixed
// prefix followed by 17 uppercase hex characters drawn from a random UUID.
// Uniqueness is enforced by the accounts table, not by the generator.
type AccountNumberGenerator struct{}

// NewAccountNumberGenerator creates a new AccountNumberGenerator.
func NewAccountNumberGenerator() *AccountNumberGenerator {
	return &AccountNumberGenerator{}
}

// Generate generates a new account number.
func (g *AccountNumberGenerator) Generate() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))

	return accountNumberPrefix + suffix[:accountSuffixLength]
}
