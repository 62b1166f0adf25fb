// Package randompkg provides functionality for generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	base36   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer between min and max inclusive.
func IntBetween(min, max int) int64 {
	return int64(min) + Intn(max-min+1)
}

func fromAlphabet(n int, letters string) string {
	var sb strings.Builder

	k := len(letters)

	for i := 0; i < n; i++ {
		c := letters[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random lower-case string of length n.
func String(n int) string {
	return fromAlphabet(n, alphabet)
}

// Base36 generates a random upper-case base36 string of length n.
func Base36(n int) string {
	return fromAlphabet(n, base36)
}

// Username generates a random operator name.
func Username() string {
	return String(6)
}

// BusinessID generates a random business identifier.
func BusinessID() string {
	return fmt.Sprintf("biz_%s", String(12))
}

// WholeAmountBetween generates a random integral amount between min and max.
func WholeAmountBetween(min, max int) decimal.Decimal {
	return decimal.NewFromInt(IntBetween(min, max))
}

// MoneyAmountBetween generates a random amount of money between min and max with 2 decimals.
func MoneyAmountBetween(min, max int) decimal.Decimal {
	cents := IntBetween(min*100, max*100)
	return decimal.New(cents, -2)
}
