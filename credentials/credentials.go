// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package credentials resolves auth material for restricted candidate locations.
package credentials

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Origin tags where a credential set came from
type Origin string

const (
	// OriginNone means no credentials: open data or anonymous access
	OriginNone Origin = "none"
	// OriginEnvironment means provider-standard environment variables
	OriginEnvironment Origin = "environment"
	// OriginProfile means a named profile in the local credential file
	OriginProfile Origin = "profile"
	// OriginExplicit means the caller supplied the material directly
	OriginExplicit Origin = "explicit"
)

// CredentialSet is an opaque bag of provider-specific auth material.
//
// Material values are never logged; use Redacted for diagnostics.
type CredentialSet struct {
	Origin   Origin
	Material map[string]string
}

// Anonymous returns the credential set used for open data
func Anonymous() CredentialSet {
	return CredentialSet{Origin: OriginNone}
}

// IsAnonymous reports whether the set carries no auth material
func (c CredentialSet) IsAnonymous() bool {
	return c.Origin == OriginNone
}

// Redacted returns a log-safe rendering of the set: origin and material key
// names only, sorted
func (c CredentialSet) Redacted() string {
	if len(c.Material) == 0 {
		return string(c.Origin)
	}
	keys := slices.Sorted(maps.Keys(c.Material))
	return fmt.Sprintf("%s[%s]", c.Origin, strings.Join(keys, ","))
}
