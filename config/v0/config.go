// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package v0 provides the schema for v0 of the system config file for skyhook
//
// v0 allows for breaking changes without a major version increase
package v0

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
	"github.com/spf13/afero"
	"github.com/xeipuuv/gojsonschema"

	"github.com/heliodata/skyhook/config"
	"github.com/heliodata/skyhook/sources"
)

// SchemaVersion is the current schema version for configs
const SchemaVersion = "v0"

// versioned grabs just the schema version before the full parse
type versioned struct {
	SchemaVersion string `json:"schema-version"`
}

// Config is the system configuration file for skyhook
type Config struct {
	SchemaVersion string `json:"schema-version"`
	// DefaultSource is the source token used when no -s flag is given
	DefaultSource string `json:"default-source,omitempty"`
	// Profile is the default credential profile name
	Profile string `json:"profile,omitempty"`
	// CredentialsPath overrides the default credential store location
	CredentialsPath string `json:"credentials-path,omitempty"`
	// Aliases maps shorthand tokens to provider[:region] source tokens
	Aliases map[string]string `json:"aliases,omitempty"`
}

// JSONSchemaExtend extends the JSON schema for a config
func (Config) JSONSchemaExtend(schema *jsonschema.Schema) {
	if schemaVersion, ok := schema.Properties.Get("schema-version"); ok && schemaVersion != nil {
		schemaVersion.Description = "Config schema version"
		schemaVersion.Enum = []any{SchemaVersion}
		schemaVersion.AdditionalProperties = jsonschema.FalseSchema
	}

	if defaultSource, ok := schema.Properties.Get("default-source"); ok && defaultSource != nil {
		defaultSource.Description = "Source token used when none is requested, e.g. \"aws:us-east-1\""
	}

	if profile, ok := schema.Properties.Get("profile"); ok && profile != nil {
		profile.Description = "Default credential profile name"
	}

	if credentialsPath, ok := schema.Properties.Get("credentials-path"); ok && credentialsPath != nil {
		credentialsPath.Description = "Path to the credential profile store"
	}

	if aliases, ok := schema.Properties.Get("aliases"); ok && aliases != nil {
		aliases.Description = "Shorthand tokens mapping to provider[:region] source tokens"
		aliases.PatternProperties = map[string]*jsonschema.Schema{
			"^[a-zA-Z_][a-zA-Z0-9_-]*$": {
				Type:        "string",
				Description: "A source token",
			},
		}
		aliases.AdditionalProperties = jsonschema.FalseSchema
	}
}

// LoadConfig loads the configuration from the file system
//
// It assumes the provided fs's base directory contains a valid configuration file
//
// If the configuration file does not exist, this function returns a default valid but "empty" config
func LoadConfig(fsys afero.Fs) (*Config, error) {
	return LoadConfigFrom(fsys, config.DefaultFileName)
}

// LoadConfigFrom loads the configuration from an explicit path
func LoadConfigFrom(fsys afero.Fs, path string) (*Config, error) {
	cfg := &Config{
		SchemaVersion: SchemaVersion,
		Aliases:       map[string]string{},
	}

	f, err := fsys.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var v versioned
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	switch version := v.SchemaVersion; version {
	case SchemaVersion:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if cfg.Aliases == nil {
			cfg.Aliases = map[string]string{}
		}
		return cfg, Validate(cfg)
	default:
		return nil, fmt.Errorf("unsupported config schema version: expected %q, got %q", SchemaVersion, version)
	}
}

// LoadDefaultConfig loads the configuration from $HOME/.skyhook
func LoadDefaultConfig() (*Config, error) {
	dir, err := config.DefaultDirectory()
	if err != nil {
		return nil, err
	}

	return LoadConfig(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Since every validation operation leverages the same config, only calculate it once to save some compute cycles
//
// This also prevents any schema changes from occuring at runtime
var schemaOnce = sync.OnceValues(func() (string, error) {
	s := Schema()
	b, err := json.Marshal(s)
	return string(b), err
})

// Validate checks if a config adheres to the JSON schema, and that every
// source token in it parses
func Validate(cfg *Config) error {
	schema, err := schemaOnce()
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(cfg))
	if err != nil {
		return err
	}

	var resErr error
	if !result.Valid() {
		for _, err := range result.Errors() {
			resErr = errors.Join(resErr, errors.New(err.String()))
		}
	}

	if cfg.DefaultSource != "" {
		if _, err := sources.ParseSource(cfg.DefaultSource); err != nil {
			resErr = errors.Join(resErr, err)
		}
	}
	for alias, token := range cfg.Aliases {
		if _, err := sources.ParseSource(token); err != nil {
			resErr = errors.Join(resErr, fmt.Errorf("alias %q: %w", alias, err))
		}
	}

	return resErr
}

// Schema returns the JSON schema for the Config type
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&Config{})

	schema.ID = "https://raw.githubusercontent.com/heliodata/skyhook/main/skyhook-config.schema.json"

	return schema
}
