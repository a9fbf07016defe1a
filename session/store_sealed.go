package session

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/stockyourlot/stocklot-client/roles"
)

const (
	sealSaltLength = 16
	scryptN        = 1 << 15
	scryptR        = 8
	scryptP        = 1
)

// SealedFileStore persists the session like FileStore but seals the payload
// with a key derived from a passphrase, so the bearer token is not readable
// at rest. On-disk layout: salt || nonce || ciphertext.
//
// Reads keep the Store contract: a missing file, a torn file, or a wrong
// passphrase all read as the zero session rather than failing.
type SealedFileStore struct {
	mu         sync.Mutex
	path       string
	passphrase []byte

	// key derivation is expensive; cache the key per salt
	cachedSalt []byte
	cachedKey  []byte
}

var _ Store = (*SealedFileStore)(nil)

// NewSealedFileStore creates a sealed store at path using the given
// passphrase for key derivation.
func NewSealedFileStore(path, passphrase string) *SealedFileStore {
	return &SealedFileStore{path: path, passphrase: []byte(passphrase)}
}

func (f *SealedFileStore) Get() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *SealedFileStore) Put(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(s)
}

func (f *SealedFileStore) SetToken(token string) error {
	return f.mutate(func(s *Session) { s.Token = token })
}

func (f *SealedFileStore) SetDisplayName(name string) error {
	return f.mutate(func(s *Session) { s.DisplayName = name })
}

func (f *SealedFileStore) SetDealerName(name string) error {
	return f.mutate(func(s *Session) { s.DealerName = strings.TrimSpace(name) })
}

func (f *SealedFileStore) SetLandingRole(role roles.LandingRole) error {
	return f.mutate(func(s *Session) { s.LandingRole = role })
}

func (f *SealedFileStore) SetRawRoles(rawRoles []string) error {
	return f.mutate(func(s *Session) {
		if len(rawRoles) == 0 {
			s.RawRoles = nil
			return
		}
		s.RawRoles = append([]string(nil), rawRoles...)
	})
}

func (f *SealedFileStore) ClearAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[SealedFileStore.ClearAll] Remove")
	}
	return nil
}

func (f *SealedFileStore) mutate(apply func(*Session)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.read()
	apply(&s)
	return f.write(s)
}

func (f *SealedFileStore) read() Session {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Session{}
	}
	aeadOverhead := chacha20poly1305.NonceSizeX
	if len(data) < sealSaltLength+aeadOverhead {
		return Session{}
	}
	salt := data[:sealSaltLength]
	nonce := data[sealSaltLength : sealSaltLength+chacha20poly1305.NonceSizeX]
	ciphertext := data[sealSaltLength+chacha20poly1305.NonceSizeX:]

	key, err := f.deriveKey(salt)
	if err != nil {
		return Session{}
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Session{}
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Session{}
	}
	var s Session
	if err := json.Unmarshal(plaintext, &s); err != nil {
		return Session{}
	}
	return s
}

func (f *SealedFileStore) write(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[SealedFileStore.write] MkdirAll")
	}
	plaintext, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "[SealedFileStore.write] Marshal")
	}

	salt := make([]byte, sealSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return errors.Wrap(err, "[SealedFileStore.write] rand salt")
	}
	key, err := f.deriveKey(salt)
	if err != nil {
		return errors.Wrap(err, "[SealedFileStore.write] derive key")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return errors.Wrap(err, "[SealedFileStore.write] NewX")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "[SealedFileStore.write] rand nonce")
	}

	var out bytes.Buffer
	out.Write(salt)
	out.Write(nonce)
	out.Write(aead.Seal(nil, nonce, plaintext, nil))

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out.Bytes(), 0o600); err != nil {
		return errors.Wrap(err, "[SealedFileStore.write] WriteFile")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "[SealedFileStore.write] Rename")
	}
	return nil
}

func (f *SealedFileStore) deriveKey(salt []byte) ([]byte, error) {
	if f.cachedKey != nil && bytes.Equal(salt, f.cachedSalt) {
		return f.cachedKey, nil
	}
	key, err := scrypt.Key(f.passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "scrypt.Key")
	}
	f.cachedSalt = append([]byte(nil), salt...)
	f.cachedKey = key
	return key, nil
}
