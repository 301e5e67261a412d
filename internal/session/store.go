package session

// store.go holds the credential store implementations, on the client side.

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const serviceName = "chatrum"

// Credential keys shared with the login flow.
const (
	KeyAccessToken    = "access_token"
	KeyUserID         = "user_id"
	KeyUserName       = "user_name"
	KeyProfilePicture = "user_profile_picture"
)

// Store is the secure credential store: string values by string key.
// Get returns "" for a missing key, never an error.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// KeyringStore keeps credentials in the OS keyring.
type KeyringStore struct{}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (k *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(serviceName, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (k *KeyringStore) Set(key, value string) error {
	return keyring.Set(serviceName, key, value)
}

func (k *KeyringStore) Remove(key string) error {
	err := keyring.Delete(serviceName, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// MemoryStore is an in-process store for tests.
type MemoryStore struct {
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, error) {
	return m.values[key], nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	delete(m.values, key)
	return nil
}

// FileStore keeps credentials in a single encrypted file, for headless hosts
// without a keyring daemon. The file layout is salt(16) | nonce(24) | box.
type FileStore struct {
	path       string
	passphrase string
}

func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, errors.New("credential file passphrase is empty")
	}
	return &FileStore{path: path, passphrase: passphrase}, nil
}

func (f *FileStore) Get(key string) (string, error) {
	values, err := f.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (f *FileStore) Set(key, value string) error {
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Remove(key string) error {
	values, err := f.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) < 16+24+secretbox.Overhead {
		return nil, fmt.Errorf("credential file %s is truncated", f.path)
	}

	var salt [16]byte
	var nonce [24]byte
	copy(salt[:], raw[:16])
	copy(nonce[:], raw[16:40])

	key, err := f.deriveKey(salt[:])
	if err != nil {
		return nil, err
	}

	plain, ok := secretbox.Open(nil, raw[40:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("cannot decrypt credential file %s: wrong passphrase?", f.path)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (f *FileStore) save(values map[string]string) error {
	plain, err := json.Marshal(values)
	if err != nil {
		return err
	}

	var salt [16]byte
	var nonce [24]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return err
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		return err
	}

	key, err := f.deriveKey(salt[:])
	if err != nil {
		return err
	}

	out := make([]byte, 0, 40+len(plain)+secretbox.Overhead)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plain, &nonce, key)

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(f.path, out, 0600)
}

func (f *FileStore) deriveKey(salt []byte) (*[32]byte, error) {
	derived, err := scrypt.Key([]byte(f.passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}
