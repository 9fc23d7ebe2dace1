// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package credentials

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// ErrProfileNotFound is returned when a named profile does not exist
var ErrProfileNotFound = errors.New("profile not found")

// ErrMalformedProfile is returned when a profile exists but is unusable
var ErrMalformedProfile = errors.New("malformed profile")

// Store looks up named credential profiles
type Store interface {
	Profile(name string) (CredentialSet, error)
}

// SchemaVersion is the current schema version for credential files
const SchemaVersion = "v0"

type credentialFile struct {
	SchemaVersion string                       `json:"schema-version"`
	Profiles      map[string]map[string]string `json:"profiles"`
}

// FileStore reads named profiles from a local YAML credential file.
//
// The file is re-read per lookup; it is a bounded local operation and keeping
// no cache means concurrent resolutions share no mutable state.
type FileStore struct {
	fsys afero.Fs
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the credential file at path
func NewFileStore(fsys afero.Fs, path string) *FileStore {
	return &FileStore{fsys: fsys, path: path}
}

// Profile implements Store
func (s *FileStore) Profile(name string) (CredentialSet, error) {
	f, err := s.fsys.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CredentialSet{}, fmt.Errorf("%q: no credential file at %s: %w", name, s.path, ErrProfileNotFound)
		}
		return CredentialSet{}, err
	}
	defer f.Close()

	data, err := afero.ReadAll(f)
	if err != nil {
		return CredentialSet{}, err
	}

	var file credentialFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return CredentialSet{}, fmt.Errorf("failed to parse credential file %s: %w", s.path, err)
	}

	if file.SchemaVersion != SchemaVersion {
		return CredentialSet{}, fmt.Errorf("unsupported credential file schema version: expected %q, got %q", SchemaVersion, file.SchemaVersion)
	}

	material, ok := file.Profiles[name]
	if !ok {
		return CredentialSet{}, fmt.Errorf("%q: %w", name, ErrProfileNotFound)
	}

	if len(material) == 0 {
		return CredentialSet{}, fmt.Errorf("%q has no material: %w", name, ErrMalformedProfile)
	}
	for key, value := range material {
		if value == "" {
			return CredentialSet{}, fmt.Errorf("%q key %q is empty: %w", name, key, ErrMalformedProfile)
		}
	}

	return CredentialSet{Origin: OriginProfile, Material: material}, nil
}
