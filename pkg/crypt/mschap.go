package crypt

import (
	"crypto/des"
	"crypto/sha1"
	"crypto/subtle"

	"golang.org/x/crypto/md4"
)

const (
	// NTHashLength is the length of an NT password hash.
	NTHashLength = 16

	// NTResponseLength is the length of an MS-CHAP NT-Response.
	NTResponseLength = 24

	// PeerChallengeLength is the length of the MS-CHAPv2 peer challenge.
	PeerChallengeLength = 16

	// V1ChallengeLength is the length of the MS-CHAPv1 challenge.
	V1ChallengeLength = 8
)

// NTPasswordHash computes the NT hash of a password: MD4 over its UTF-16LE
// encoding (RFC 2433 Section A.5). The hash is derived per attempt and never
// stored.
func NTPasswordHash(password string) []byte {
	runes := []rune(password)
	encoded := make([]byte, len(runes)*2)
	for i, r := range runes {
		encoded[i*2] = byte(r)
		encoded[i*2+1] = byte(r >> 8)
	}

	hash := md4.New()
	hash.Write(encoded)
	return hash.Sum(nil)
}

// ChallengeResponse computes the 24-byte MS-CHAP response (RFC 2433 Section
// A.3): the NT hash is zero-padded to 21 bytes, split into three 7-byte keys,
// and the 8-byte challenge is DES-encrypted under each.
func ChallengeResponse(challenge, ntHash []byte) []byte {
	padded := make([]byte, 21)
	copy(padded, ntHash)

	block := make([]byte, V1ChallengeLength)
	copy(block, challenge)

	response := make([]byte, NTResponseLength)
	desEncrypt(padded[0:7], block, response[0:8])
	desEncrypt(padded[7:14], block, response[8:16])
	desEncrypt(padded[14:21], block, response[16:24])

	return response
}

// ChallengeHash computes the 8-byte MS-CHAPv2 challenge (RFC 2759 Section
// 8.2): the first 8 bytes of SHA1(peerChallenge + authenticatorChallenge +
// username).
func ChallengeHash(peerChallenge, authenticatorChallenge []byte, username string) []byte {
	hash := sha1.New()
	hash.Write(peerChallenge)
	hash.Write(authenticatorChallenge)
	hash.Write([]byte(username))
	return hash.Sum(nil)[:8]
}

// NTResponseV2 computes the expected MS-CHAPv2 NT-Response for a password
// (RFC 2759 Section 8.1).
func NTResponseV2(authenticatorChallenge, peerChallenge []byte, username, password string) []byte {
	challenge := ChallengeHash(peerChallenge, authenticatorChallenge, username)
	return ChallengeResponse(challenge, NTPasswordHash(password))
}

// CheckResponse compares a received 24-byte response with the expected one in
// constant time.
func CheckResponse(received, expected []byte) bool {
	if len(received) != NTResponseLength || len(expected) != NTResponseLength {
		return false
	}
	return subtle.ConstantTimeCompare(received, expected) == 1
}

// desEncrypt expands a 7-byte key into an 8-byte parity-adjusted DES key and
// encrypts one block (RFC 2433 Section A.4).
func desEncrypt(key7, clear, cipher []byte) {
	key := make([]byte, 8)
	key[0] = key7[0]
	key[1] = key7[0]<<7 | key7[1]>>1
	key[2] = key7[1]<<6 | key7[2]>>2
	key[3] = key7[2]<<5 | key7[3]>>3
	key[4] = key7[3]<<4 | key7[4]>>4
	key[5] = key7[4]<<3 | key7[5]>>5
	key[6] = key7[5]<<2 | key7[6]>>6
	key[7] = key7[6] << 1

	for i := range key {
		key[i] = setParity(key[i])
	}

	block, err := des.NewCipher(key)
	if err != nil {
		return
	}
	block.Encrypt(cipher, clear)
}

// setParity sets the low bit so the byte has odd parity.
func setParity(b byte) byte {
	parity := byte(0)
	for i := 1; i < 8; i++ {
		parity ^= (b >> i) & 1
	}
	return (b & 0xfe) | (parity ^ 1)
}
