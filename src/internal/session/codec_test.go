package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("secret")

	value, err := codec.Encode("abc-123")
	require.NoError(t, err)

	id, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
}

func TestCodecRejectsForeignSignature(t *testing.T) {
	value, err := NewCodec("other").Encode("abc")
	require.NoError(t, err)

	_, err = NewCodec("secret").Decode(value)
	assert.True(t, IsInvalid(err))
}

func TestCodecRejectsGarbageAndUnsignedTokens(t *testing.T) {
	codec := NewCodec("secret")

	_, err := codec.Decode("not-a-token")
	assert.True(t, IsInvalid(err))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, cookieClaims{SessionID: "abc"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Decode(unsigned)
	assert.True(t, IsInvalid(err))
}

func TestCodecRejectsMissingSessionID(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewCodec("secret").Decode(token)
	assert.True(t, IsInvalid(err))
}
