package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// TwoFACodeLength is the number of digits in a second-factor code.
const TwoFACodeLength = 6

// TwoFACode is a six digit one-time code.
type TwoFACode struct {
	value string
}

// ParseTwoFACode accepts exactly six ASCII digits.
func ParseTwoFACode(raw string) (TwoFACode, error) {
	if len(raw) != TwoFACodeLength {
		return TwoFACode{}, fmt.Errorf("%w: 2fa code must be %d digits", ErrValidation, TwoFACodeLength)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return TwoFACode{}, fmt.Errorf("%w: 2fa code must be %d digits", ErrValidation, TwoFACodeLength)
		}
	}
	return TwoFACode{value: raw}, nil
}

// NewTwoFACode draws every digit independently and uniformly from crypto/rand.
func NewTwoFACode() (TwoFACode, error) {
	digits := make([]byte, TwoFACodeLength)
	ten := big.NewInt(10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return TwoFACode{}, fmt.Errorf("generate 2fa code: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return TwoFACode{value: string(digits)}, nil
}

func (c TwoFACode) String() string { return c.value }
