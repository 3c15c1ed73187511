package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

func TestParseEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "simple", input: "ursula@domain.com", want: "ursula@domain.com", ok: true},
		{name: "trims and lowercases domain", input: "  Ursula@Domain.COM ", want: "Ursula@domain.com", ok: true},
		{name: "keeps local part case", input: "Ada.Lovelace@Example.org", want: "Ada.Lovelace@example.org", ok: true},
		{name: "plus tag", input: "a+b@example.org", want: "a+b@example.org", ok: true},
		{name: "empty", input: "", ok: false},
		{name: "whitespace only", input: "   ", ok: false},
		{name: "missing at", input: "ursuladomain.com", ok: false},
		{name: "missing local part", input: "@domain.com", ok: false},
		{name: "missing domain", input: "ursula@", ok: false},
		{name: "display name", input: "Ursula <ursula@domain.com>", ok: false},
		{name: "two ats", input: "a@b@c.com", ok: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := domain.ParseEmail(tc.input)
			if !tc.ok {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrValidation))
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestParseEmail_ValueEquality(t *testing.T) {
	t.Parallel()
	a, err := domain.ParseEmail("ada@example.com")
	require.NoError(t, err)
	b, err := domain.ParseEmail(" ada@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := domain.ParseEmail("Ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestParsePassword(t *testing.T) {
	t.Parallel()

	for n := 0; n < domain.MinPasswordLength; n++ {
		_, err := domain.ParsePassword(strings.Repeat("x", n))
		assert.ErrorIs(t, err, domain.ErrValidation, "length %d", n)
	}
	for _, n := range []int{domain.MinPasswordLength, 9, 64, 200} {
		p, err := domain.ParsePassword(strings.Repeat("x", n))
		require.NoError(t, err, "length %d", n)
		assert.Equal(t, strings.Repeat("x", n), p.Reveal())
	}
}

func TestPassword_StringRedacts(t *testing.T) {
	t.Parallel()
	p, err := domain.ParsePassword("supersecret")
	require.NoError(t, err)
	assert.NotContains(t, p.String(), "supersecret")
}

func TestParseTwoFACode(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"000000", "123456", "999999"} {
		got, err := domain.ParseTwoFACode(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, got.String())
	}
	for _, invalid := range []string{"", "12345", "1234567", "12a456", " 12345", "１２３４５６"} {
		_, err := domain.ParseTwoFACode(invalid)
		assert.ErrorIs(t, err, domain.ErrValidation, "input %q", invalid)
	}
}

func TestNewTwoFACode_ShapeAndSpread(t *testing.T) {
	t.Parallel()

	seen := make(map[byte]bool)
	for i := 0; i < 200; i++ {
		code, err := domain.NewTwoFACode()
		require.NoError(t, err)
		raw := code.String()
		require.Len(t, raw, domain.TwoFACodeLength)
		_, err = domain.ParseTwoFACode(raw)
		require.NoError(t, err)
		for j := 0; j < len(raw); j++ {
			seen[raw[j]] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestParseLoginAttemptID(t *testing.T) {
	t.Parallel()

	generated := domain.NewLoginAttemptID()
	parsed, err := domain.ParseLoginAttemptID(generated.String())
	require.NoError(t, err)
	assert.Equal(t, generated, parsed)

	upper, err := domain.ParseLoginAttemptID(strings.ToUpper(generated.String()))
	require.NoError(t, err)
	assert.Equal(t, generated, upper)

	for _, invalid := range []string{"", "not-a-uuid", "1234", strings.Repeat("z", 36)} {
		_, err := domain.ParseLoginAttemptID(invalid)
		assert.ErrorIs(t, err, domain.ErrValidation, "input %q", invalid)
	}
	assert.NotEqual(t, domain.NewLoginAttemptID(), domain.NewLoginAttemptID())
}
