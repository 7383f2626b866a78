// Package tokens persists MAST API tokens on the local machine, keyed by
// API hostname. It stands in for a system keyring: a single YAML file
// under the user config directory, readable only by the owner.
package tokens

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const storeVersion = "1.0"

type Store struct {
	lock sync.Mutex
	path string
}

type storeFile struct {
	Version   string            `yaml:"version"`
	Timestamp time.Time         `yaml:"timestamp"`
	Tokens    map[string]string `yaml:"tokens"`
}

// NewStore opens a token store rooted at the default location,
// ~/.config/mastquery/tokens.yaml.
func NewStore() (*Store, error) {
	usr, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return NewStoreAt(filepath.Join(usr.HomeDir, ".config", "mastquery", "tokens.yaml")), nil
}

// NewStoreAt opens a token store backed by the given file path. The file
// and its parent directory are created on first commit.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Get returns the stored token for the given API hostname, or an empty
// string when none is stored.
func (s *Store) Get(hostname string) string {
	s.lock.Lock()
	defer s.lock.Unlock()

	contents, err := s.load()
	if err != nil {
		logrus.WithError(err).WithField("path", s.path).Debugln("No readable token store")
		return ""
	}

	return contents.Tokens[hostname]
}

// Put stores a token for the given API hostname, replacing any previous
// value, and commits the store to disk.
func (s *Store) Put(hostname string, token string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	contents, err := s.load()
	if err != nil {
		contents = &storeFile{Tokens: make(map[string]string)}
	}

	contents.Tokens[hostname] = token

	return s.commit(contents)
}

// Remove drops the stored token for the given hostname. Removing a
// hostname that has no token is not an error.
func (s *Store) Remove(hostname string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	contents, err := s.load()
	if err != nil {
		return nil
	}

	if _, ok := contents.Tokens[hostname]; !ok {
		return nil
	}

	delete(contents.Tokens, hostname)

	return s.commit(contents)
}

func (s *Store) load() (*storeFile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var contents storeFile
	if err := yaml.Unmarshal(raw, &contents); err != nil {
		// A corrupt store is replaced rather than fatal
		logrus.WithError(err).WithField("path", s.path).Errorln("Failed to parse token store, reinitializing")
		return &storeFile{Tokens: make(map[string]string)}, nil
	}

	if contents.Tokens == nil {
		contents.Tokens = make(map[string]string)
	}

	return &contents, nil
}

func (s *Store) commit(contents *storeFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token store directory: %w", err)
	}

	contents.Version = storeVersion
	contents.Timestamp = time.Now().UTC()

	raw, err := yaml.Marshal(contents)
	if err != nil {
		return err
	}

	// Only allow read/write access to the owner
	return os.WriteFile(s.path, raw, 0600)
}
