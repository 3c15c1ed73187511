package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBannedKey_HashesToken(t *testing.T) {
	t.Parallel()
	key := bannedKey("header.payload.signature")

	assert.True(t, strings.HasPrefix(key, bannedKeyPrefix))
	assert.NotContains(t, key, "payload")
	assert.Len(t, key, len(bannedKeyPrefix)+64)
	assert.Equal(t, key, bannedKey("header.payload.signature"))
	assert.NotEqual(t, key, bannedKey("header.payload.signaturf"))
}
