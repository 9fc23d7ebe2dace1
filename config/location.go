// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package config provides system-level configuration for skyhook
package config

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the default file name for the config file
const DefaultFileName = "config.yaml"

// DefaultCredentialsFileName is the default file name for the credential profile store
const DefaultCredentialsFileName = "credentials.yaml"

// DefaultDirectory returns the default directory for skyhook configuration ($HOME/.skyhook)
//
// Currently this relies upon the $HOME environment variable being set
// In future iterations this may instead leverage the XDG fallback system
func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".skyhook"), nil
}
