// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/heliodata/skyhook/descriptor"
)

// Classify returns the access policy of a candidate location.
//
// It is an identity pass-through today; the seam exists so policy derivation
// (e.g. inferring open for well-known public buckets) can evolve without
// touching the parser.
func Classify(loc descriptor.CloudLocation) descriptor.AccessPolicy {
	return loc.Access
}

// Chain step names recorded for diagnostics
const (
	StepProfile     = "profile"
	StepAnonymous   = "anonymous"
	StepEnvironment = "environment"
)

// Reason classifies why credential resolution failed
type Reason string

const (
	// ReasonNoCredentials means the whole chain came up empty
	ReasonNoCredentials Reason = "no-credentials-available"
	// ReasonProfileNotFound means a named profile does not exist
	ReasonProfileNotFound Reason = "profile-not-found"
	// ReasonMalformed means material was found but is structurally unusable
	ReasonMalformed Reason = "malformed-credentials"
)

// CredentialError reports a failed credential resolution along with the
// chain steps that were attempted, so callers can distinguish "no
// credentials" from "wrong credentials" from "profile not found"
type CredentialError struct {
	Reason  Reason
	Profile string
	Steps   []string
	Err     error
}

// Error implements the error interface
func (e *CredentialError) Error() string {
	msg := string(e.Reason)
	if e.Profile != "" {
		msg = fmt.Sprintf("%s: profile %q", msg, e.Profile)
	}
	if len(e.Steps) > 0 {
		msg = fmt.Sprintf("%s (tried %s)", msg, strings.Join(e.Steps, ", "))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *CredentialError) Unwrap() error {
	return e.Err
}

// Options configures a single credential resolution
type Options struct {
	// Explicit short-circuits the chain entirely
	Explicit *CredentialSet
	// Profile names a profile in Store; resolution fails fast if it is absent
	Profile string
	// Store backs named profile lookups
	Store Store
	// Env probes the process environment; defaults to EnvProvider
	Env Provider
}

// Resolve executes the credential chain for a candidate location:
//
//  1. caller-supplied explicit credentials or a named profile (fail fast on a
//     missing profile, no further fallback)
//  2. anonymous access characterization: recorded so a downstream
//     access-denied reads "tried anonymous" instead of a generic failure
//  3. provider-standard environment variables
//
// Open locations return an anonymous set immediately with no probing. The
// chain performs no retries; a failure is terminal for this call.
func Resolve(ctx context.Context, loc descriptor.CloudLocation, opts Options) (CredentialSet, error) {
	if Classify(loc) == descriptor.AccessOpen {
		return Anonymous(), nil
	}

	logger := log.FromContext(ctx)

	if opts.Explicit != nil {
		creds := CredentialSet{Origin: OriginExplicit, Material: opts.Explicit.Material}
		logger.Debug("using explicit credentials", "credentials", creds.Redacted())
		return creds, nil
	}

	if opts.Profile != "" {
		if opts.Store == nil {
			return CredentialSet{}, &CredentialError{
				Reason:  ReasonProfileNotFound,
				Profile: opts.Profile,
				Steps:   []string{StepProfile},
				Err:     errors.New("no credential store configured"),
			}
		}

		creds, err := opts.Store.Profile(opts.Profile)
		if err != nil {
			reason := ReasonMalformed
			if errors.Is(err, ErrProfileNotFound) {
				reason = ReasonProfileNotFound
			}
			return CredentialSet{}, &CredentialError{
				Reason:  reason,
				Profile: opts.Profile,
				Steps:   []string{StepProfile},
				Err:     err,
			}
		}

		logger.Debug("resolved profile credentials", "profile", opts.Profile, "credentials", creds.Redacted())
		return creds, nil
	}

	steps := []string{StepAnonymous}
	logger.Debug("no profile given, anonymous access will be attempted", "location", loc.String())

	env := opts.Env
	if env == nil {
		env = EnvProvider{}
	}

	steps = append(steps, StepEnvironment)
	creds, found, err := env.Lookup(ctx, loc.Provider)
	if err != nil {
		return CredentialSet{}, &CredentialError{Reason: ReasonMalformed, Steps: steps, Err: err}
	}
	if found {
		logger.Debug("resolved environment credentials", "credentials", creds.Redacted())
		return creds, nil
	}

	return CredentialSet{}, &CredentialError{Reason: ReasonNoCredentials, Steps: steps}
}
