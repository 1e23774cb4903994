package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCHAPChallenge(t *testing.T) {
	challenge, err := GenerateCHAPChallenge(0)
	require.NoError(t, err)
	assert.Len(t, challenge, CHAPChallengeLength)

	challenge, err = GenerateCHAPChallenge(32)
	require.NoError(t, err)
	assert.Len(t, challenge, 32)

	challenge, err = GenerateCHAPChallenge(1000)
	require.NoError(t, err)
	assert.Len(t, challenge, 255)
}

func TestGenerateCHAPResponseDeterministic(t *testing.T) {
	challenge := make([]byte, 16)

	first := GenerateCHAPResponse(1, []byte("pass"), challenge)
	second := GenerateCHAPResponse(1, []byte("pass"), challenge)

	require.Len(t, first, 17)
	assert.Equal(t, byte(1), first[0])
	assert.Equal(t, first, second)

	// A different identifier changes the digest
	other := GenerateCHAPResponse(2, []byte("pass"), challenge)
	assert.NotEqual(t, first[1:], other[1:])
}

func TestCheckCHAPPassword(t *testing.T) {
	challenge := []byte{0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	response := GenerateCHAPResponse(7, []byte("correct"), challenge)

	assert.True(t, CheckCHAPPassword(response, []byte("correct"), challenge))
	assert.False(t, CheckCHAPPassword(response, []byte("wrong"), challenge))
	assert.False(t, CheckCHAPPassword(response[:10], []byte("correct"), challenge))
	assert.False(t, CheckCHAPPassword(response, []byte("correct"), challenge[:8]))
}
