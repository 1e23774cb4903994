package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCredentialFile(t *testing.T) {
	path := writeTempFile(t, "users.yml", `
users:
  alice:
    secret: "alice-pass"
    reply:
      - {name: Mikrotik-Group, op: "=", value: premium}
      - {name: Session-Timeout, op: "=", value: "3600"}
  bob:
    secret: "bob-pass"
`)

	s, err := LoadCredentialFile(path)
	require.NoError(t, err)
	ctx := context.Background()

	secret, err := s.LookupSecret(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice-pass", secret)

	reply, err := s.LookupReplyAttributes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, reply, 2)
	assert.Equal(t, "Mikrotik-Group", reply[0].Name)
	assert.Equal(t, "premium", reply[0].Value)
	assert.Equal(t, "Session-Timeout", reply[1].Name)

	reply, err = s.LookupReplyAttributes(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestLookupSecretUnknownUser(t *testing.T) {
	s := NewFileCredentialStore(map[string]UserEntry{
		"alice": {Secret: "alice-pass"},
	})

	_, err := s.LookupSecret(context.Background(), "mallory")
	assert.ErrorIs(t, err, ErrNotFound)

	// Unknown users yield no reply attributes, not an error
	reply, err := s.LookupReplyAttributes(context.Background(), "mallory")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestLoadCredentialFileErrors(t *testing.T) {
	_, err := LoadCredentialFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := writeTempFile(t, "bad.yml", "users: [not, a, map]")
	_, err = LoadCredentialFile(path)
	assert.Error(t, err)
}

func TestLoadNASFile(t *testing.T) {
	path := writeTempFile(t, "clients.yml", `
clients:
  - {name: core-router, address: 192.168.1.1, secret: s3cret}
  - {address: 10.0.0.1, secret: other}
`)

	r, err := LoadNASFile(path)
	require.NoError(t, err)
	ctx := context.Background()

	secret, err := r.LookupSecretByIP(ctx, "192.168.1.1")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)

	secret, err = r.LookupSecretByIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "other", secret)

	_, err = r.LookupSecretByIP(ctx, "172.16.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}
