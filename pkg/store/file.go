package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UserEntry is one subscriber in the credential file.
type UserEntry struct {
	Secret string           `yaml:"secret"`
	Reply  []ReplyAttribute `yaml:"reply,omitempty"`
}

// FileCredentialStore is a CredentialStore backed by a YAML file loaded at
// startup. Lookups are read-only map accesses and safe for concurrent use.
type FileCredentialStore struct {
	users map[string]UserEntry
}

// NewFileCredentialStore creates a credential store from an in-memory user map.
func NewFileCredentialStore(users map[string]UserEntry) *FileCredentialStore {
	if users == nil {
		users = make(map[string]UserEntry)
	}
	return &FileCredentialStore{users: users}
}

// LoadCredentialFile reads a YAML credential file:
//
//	users:
//	  alice:
//	    secret: "password"
//	    reply:
//	      - {name: Mikrotik-Group, op: "=", value: premium}
func LoadCredentialFile(path string) (*FileCredentialStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	var doc struct {
		Users map[string]UserEntry `yaml:"users"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse credential file %s: %w", path, err)
	}

	return NewFileCredentialStore(doc.Users), nil
}

// LookupSecret implements CredentialStore.
func (s *FileCredentialStore) LookupSecret(_ context.Context, username string) (string, error) {
	user, ok := s.users[username]
	if !ok {
		return "", ErrNotFound
	}
	return user.Secret, nil
}

// LookupReplyAttributes implements CredentialStore.
func (s *FileCredentialStore) LookupReplyAttributes(_ context.Context, username string) ([]ReplyAttribute, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	return user.Reply, nil
}

// NASClient is one registered network access server in the clients file.
type NASClient struct {
	Name    string `yaml:"name,omitempty"`
	Address string `yaml:"address"`
	Secret  string `yaml:"secret"`
}

// FileNASRegistry is a NASRegistry backed by a YAML file loaded at startup.
type FileNASRegistry struct {
	secrets map[string]string
}

// NewFileNASRegistry creates a registry from a client list.
func NewFileNASRegistry(clients []NASClient) *FileNASRegistry {
	secrets := make(map[string]string, len(clients))
	for _, client := range clients {
		secrets[client.Address] = client.Secret
	}
	return &FileNASRegistry{secrets: secrets}
}

// LoadNASFile reads a YAML clients file:
//
//	clients:
//	  - {name: core-router, address: 192.168.1.1, secret: s3cret}
func LoadNASFile(path string) (*FileNASRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clients file: %w", err)
	}

	var doc struct {
		Clients []NASClient `yaml:"clients"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse clients file %s: %w", path, err)
	}

	return NewFileNASRegistry(doc.Clients), nil
}

// LookupSecretByIP implements NASRegistry.
func (r *FileNASRegistry) LookupSecretByIP(_ context.Context, ip string) (string, error) {
	secret, ok := r.secrets[ip]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}
