// Package crypt implements the cryptographic derivations of the RADIUS
// protocol family: RFC 2865 User-Password obfuscation, CHAP (RFC 1994),
// and the MS-CHAP v1/v2 challenge-response algorithms (RFC 2433, RFC 2759).
// All functions are pure and perform no I/O.
package crypt

import (
	"bytes"
	"crypto/md5"
	"fmt"
)

const passwordBlockLength = 16

// EncryptPassword obfuscates a cleartext password per RFC 2865 Section 5.2.
// The password is zero-padded to a multiple of 16 bytes; block i is XORed
// with MD5(secret + requestAuthenticator) for the first block and
// MD5(secret + previous cipher block) for the rest.
func EncryptPassword(password []byte, requestAuthenticator [16]byte, secret []byte) []byte {
	blocks := (len(password) + passwordBlockLength - 1) / passwordBlockLength
	if blocks == 0 {
		blocks = 1
	}

	padded := make([]byte, blocks*passwordBlockLength)
	copy(padded, password)

	out := make([]byte, len(padded))
	prev := requestAuthenticator[:]

	for i := 0; i < len(padded); i += passwordBlockLength {
		hash := md5.New()
		hash.Write(secret)
		hash.Write(prev)
		mask := hash.Sum(nil)

		for j := 0; j < passwordBlockLength; j++ {
			out[i+j] = padded[i+j] ^ mask[j]
		}

		prev = out[i : i+passwordBlockLength]
	}

	return out
}

// DecryptPassword reverses EncryptPassword. Trailing zero bytes are stripped
// as padding; a password that legitimately ends in a NUL byte loses it, which
// is an accepted quirk of the protocol.
func DecryptPassword(data []byte, requestAuthenticator [16]byte, secret []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%passwordBlockLength != 0 {
		return nil, fmt.Errorf("invalid encrypted password length: %d", len(data))
	}

	out := make([]byte, len(data))
	prev := requestAuthenticator[:]

	for i := 0; i < len(data); i += passwordBlockLength {
		hash := md5.New()
		hash.Write(secret)
		hash.Write(prev)
		mask := hash.Sum(nil)

		for j := 0; j < passwordBlockLength; j++ {
			out[i+j] = data[i+j] ^ mask[j]
		}

		prev = data[i : i+passwordBlockLength]
	}

	return bytes.TrimRight(out, "\x00"), nil
}
