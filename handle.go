// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package skyhook resolves catalog data product records to fetchable locations.
package skyhook

import (
	"fmt"
	"net/url"

	"github.com/heliodata/skyhook/credentials"
	"github.com/heliodata/skyhook/descriptor"
)

// FetchHandle is the product of a successful resolution: everything a
// transfer layer needs to fetch one data product from one location.
//
// Handles are immutable by convention, construction is all-or-nothing and
// callers receive them by value.
type FetchHandle struct {
	// Scheme is the URI scheme, e.g. "s3", "gs", "https"
	Scheme string `json:"scheme"`
	// URI is the full location of the data product
	URI string `json:"uri"`
	// Provider is the storage provider the handle points at
	Provider descriptor.Provider `json:"provider"`
	// Region is the provider region, when known
	Region string `json:"region,omitempty"`
	// AccessPolicy is the policy of the selected candidate
	AccessPolicy descriptor.AccessPolicy `json:"access"`
	// Fallback reports that the requested source was unavailable and the
	// on-prem entry was substituted
	Fallback bool `json:"fallback,omitempty"`

	// Credentials carry secret material and are never serialized; use
	// Credentials.Redacted for any user-facing output
	Credentials credentials.CredentialSet `json:"-"`
}

// String implements fmt.Stringer, redacting credential material
func (h FetchHandle) String() string {
	return fmt.Sprintf("%s (%s, credentials: %s)", h.URI, h.AccessPolicy, h.Credentials.Redacted())
}

// BuildHandle constructs a FetchHandle for a selected candidate.
//
// Cloud candidates become provider object URIs, the on-prem candidate keeps
// its access URL verbatim. A candidate the builder has no scheme for is an
// InvariantViolation: selection must never emit one.
func BuildHandle(loc descriptor.CloudLocation, creds credentials.CredentialSet, fallback bool) (FetchHandle, error) {
	if err := loc.Validate(); err != nil {
		return FetchHandle{}, &InvariantViolation{Op: "BuildHandle", Msg: err.Error()}
	}

	handle := FetchHandle{
		Provider:     loc.Provider,
		Region:       loc.Region,
		AccessPolicy: loc.Access,
		Fallback:     fallback,
		Credentials:  creds,
	}

	switch loc.Provider {
	case descriptor.ProviderAWS:
		handle.Scheme = "s3"
		handle.URI = fmt.Sprintf("s3://%s/%s", loc.Identifier, loc.Key)
	case descriptor.ProviderGoogleCloud:
		handle.Scheme = "gs"
		handle.URI = fmt.Sprintf("gs://%s/%s", loc.Identifier, loc.Key)
	case descriptor.ProviderOnPrem:
		u, err := url.Parse(loc.Identifier)
		if err != nil {
			return FetchHandle{}, fmt.Errorf("invalid access_url %q: %w", loc.Identifier, err)
		}
		if u.Scheme == "" {
			return FetchHandle{}, fmt.Errorf("access_url %q has no scheme", loc.Identifier)
		}
		handle.Scheme = u.Scheme
		handle.URI = loc.Identifier
	default:
		return FetchHandle{}, &InvariantViolation{Op: "BuildHandle", Msg: fmt.Sprintf("no handle scheme for provider %q", loc.Provider)}
	}

	return handle, nil
}
