package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/stockyourlot/stocklot-client/roles"
)

// FileStore persists the session as a JSON file. Writes go through a temp
// file and rename, so a crash mid-write never leaves a torn session on disk.
// Fields set to their zero value are omitted from the file entirely.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the JSON file at path. The file and
// its directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FileStore) Put(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(s)
}

func (f *FileStore) SetToken(token string) error {
	return f.mutate(func(s *Session) { s.Token = token })
}

func (f *FileStore) SetDisplayName(name string) error {
	return f.mutate(func(s *Session) { s.DisplayName = name })
}

func (f *FileStore) SetDealerName(name string) error {
	return f.mutate(func(s *Session) { s.DealerName = strings.TrimSpace(name) })
}

func (f *FileStore) SetLandingRole(role roles.LandingRole) error {
	return f.mutate(func(s *Session) { s.LandingRole = role })
}

func (f *FileStore) SetRawRoles(rawRoles []string) error {
	return f.mutate(func(s *Session) {
		if len(rawRoles) == 0 {
			s.RawRoles = nil
			return
		}
		s.RawRoles = append([]string(nil), rawRoles...)
	})
}

// ClearAll removes the backing file. Idempotent: clearing an already absent
// session is not an error.
func (f *FileStore) ClearAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.ClearAll] Remove")
	}
	return nil
}

func (f *FileStore) mutate(apply func(*Session)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.read()
	apply(&s)
	return f.write(s)
}

// read returns the zero session on any failure - absent keys read as "not
// set", never an exception.
func (f *FileStore) read() Session {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Session{}
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}
	}
	return s
}

func (f *FileStore) write(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.write] MkdirAll")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.write] Marshal")
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.write] WriteFile")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "[FileStore.write] Rename")
	}
	return nil
}
