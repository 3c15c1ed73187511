package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testEmail(t *testing.T) domain.Email {
	t.Helper()
	email, err := domain.ParseEmail("ada@example.com")
	require.NoError(t, err)
	return email
}

func TestJWTIssuer_IssueAndValidate(t *testing.T) {
	t.Parallel()
	issuer, err := NewJWTIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(testEmail(t))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", token.Subject.String())
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := issuer.Validate(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, token.ExpiresAt.Equal(claims.ExpiresAt))
}

func TestJWTIssuer_TokensAreUnique(t *testing.T) {
	t.Parallel()
	issuer, err := NewJWTIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	first, err := issuer.Issue(testEmail(t))
	require.NoError(t, err)
	second, err := issuer.Issue(testEmail(t))
	require.NoError(t, err)
	assert.NotEqual(t, first.Value, second.Value)
}

func TestJWTIssuer_RejectsExpired(t *testing.T) {
	t.Parallel()
	issuer, err := NewJWTIssuer(testSecret, time.Minute)
	require.NoError(t, err)

	past := issuer.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	token, err := past.Issue(testEmail(t))
	require.NoError(t, err)

	_, err = issuer.Validate(token.Value)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTIssuer_RejectsForeignSignatureAndGarbage(t *testing.T) {
	t.Parallel()
	issuer, err := NewJWTIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	other, err := NewEphemeralJWTIssuer(time.Hour)
	require.NoError(t, err)

	foreign, err := other.Issue(testEmail(t))
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c", foreign.Value} {
		_, err := issuer.Validate(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", raw)
	}
}

func TestJWTIssuer_RejectsUnexpectedAlgorithmAndMissingSubject(t *testing.T) {
	t.Parallel()
	issuer, err := NewJWTIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "ada@example.com", ExpiresAt: exp,
	}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = issuer.Validate(hs512)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "ada@example.com", ExpiresAt: exp,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Validate(none)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: exp,
	}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = issuer.Validate(noSubject)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "ada@example.com",
	}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = issuer.Validate(noExpiry)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestNewJWTIssuer_RejectsShortSecretAndDefaultsTTL(t *testing.T) {
	t.Parallel()
	_, err := NewJWTIssuer([]byte("short"), time.Hour)
	assert.Error(t, err)

	issuer, err := NewJWTIssuer(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, issuer.TTL())
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.NoError(t, hasher.Compare(hash, "password123"))
	assert.ErrorIs(t, hasher.Compare(hash, "password124"), domain.ErrCredentialMismatch)

	long := strings.Repeat("a", 100)
	longHash, err := hasher.Hash(long)
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(longHash, long))
	assert.ErrorIs(t, hasher.Compare(longHash, long+"b"), domain.ErrCredentialMismatch)
}
