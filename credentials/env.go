// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package credentials

import (
	"context"
	"fmt"
	"os"

	"github.com/heliodata/skyhook/descriptor"
)

// Provider resolves credential material for a cloud provider from some
// backing source.
//
// The environment is an implicit global; hiding it behind this interface
// keeps resolution deterministic under test.
type Provider interface {
	// Lookup returns the credential set for the given provider, reporting
	// whether one was found. A non-nil error means material was present but
	// structurally malformed.
	Lookup(ctx context.Context, cloud descriptor.Provider) (CredentialSet, bool, error)
}

// Environment variables probed per provider
const (
	EnvAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvAWSSessionToken    = "AWS_SESSION_TOKEN"
	EnvGoogleCredentials  = "GOOGLE_APPLICATION_CREDENTIALS"
)

// EnvProvider probes the process environment for provider-standard
// credential variables
type EnvProvider struct {
	// Getenv defaults to os.Getenv
	Getenv func(string) string
}

var _ Provider = EnvProvider{}

// Lookup implements Provider
func (p EnvProvider) Lookup(_ context.Context, cloud descriptor.Provider) (CredentialSet, bool, error) {
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	switch cloud {
	case descriptor.ProviderAWS:
		keyID := getenv(EnvAWSAccessKeyID)
		secret := getenv(EnvAWSSecretAccessKey)

		if keyID == "" && secret == "" {
			return CredentialSet{}, false, nil
		}
		if keyID == "" || secret == "" {
			return CredentialSet{}, false, fmt.Errorf("%s and %s must both be set", EnvAWSAccessKeyID, EnvAWSSecretAccessKey)
		}

		material := map[string]string{
			"access_key_id":     keyID,
			"secret_access_key": secret,
		}
		if token := getenv(EnvAWSSessionToken); token != "" {
			material["session_token"] = token
		}
		return CredentialSet{Origin: OriginEnvironment, Material: material}, true, nil
	case descriptor.ProviderGoogleCloud:
		path := getenv(EnvGoogleCredentials)
		if path == "" {
			return CredentialSet{}, false, nil
		}
		return CredentialSet{
			Origin:   OriginEnvironment,
			Material: map[string]string{"credentials_file": path},
		}, true, nil
	default:
		return CredentialSet{}, false, nil
	}
}
