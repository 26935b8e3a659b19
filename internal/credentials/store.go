// Package credentials acquires, validates, persists and refreshes the AWS
// credentials cwtail runs with.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rusenback/cwtail/internal/clierr"
	"github.com/rusenback/cwtail/internal/model"
)

// ErrNoStoredCredentials is returned by Load when the file does not exist.
var ErrNoStoredCredentials = errors.New("no stored credentials")

// Validate rejects credentials without a non-blank key pair.
func Validate(c model.Credentials) error {
	if strings.TrimSpace(c.AccessKeyID) == "" {
		return clierr.Configuration("access key id is required", nil)
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		return clierr.Configuration("secret access key is required", nil)
	}
	return nil
}

// Store persists credentials as JSON in a single file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the credentials file.
func (s *Store) Path() string { return s.path }

// Load reads the stored credentials without validating them.
func (s *Store) Load() (model.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Credentials{}, ErrNoStoredCredentials
		}
		return model.Credentials{}, fmt.Errorf("read credentials: %w", err)
	}

	var c model.Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Credentials{}, clierr.Configuration("credentials file is not valid JSON", err)
	}
	return c, nil
}

// Save overwrites the file with c. The file is written to a temp file and
// renamed so a crash never leaves half a credential set behind.
func (s *Store) Save(c model.Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
