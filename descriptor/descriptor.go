// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package descriptor parses the cloud_access descriptors attached to archive data product records.
package descriptor

import (
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// Provider is a storage provider tag for a candidate location
type Provider string

const (
	// ProviderAWS is Amazon S3 object storage
	ProviderAWS Provider = "aws"
	// ProviderGoogleCloud is Google Cloud Storage
	ProviderGoogleCloud Provider = "google-cloud"
	// ProviderOnPrem is the archive's own HTTP server, always present as the fallback
	ProviderOnPrem Provider = "on-prem"
	// ProviderOther tags descriptor entries whose provider this resolver does not recognize
	ProviderOther Provider = "other"
)

// KnownProviders returns the providers this resolver can build handles for
func KnownProviders() []string {
	return []string{
		string(ProviderAWS),
		string(ProviderGoogleCloud),
		string(ProviderOnPrem),
	}
}

// JSONSchemaExtend extends the JSON schema for Provider
func (Provider) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Type = "string"
	all := []any{}
	for _, p := range KnownProviders() {
		all = append(all, p)
	}
	schema.Enum = append(all, string(ProviderOther))
	schema.Description = "Storage provider for a candidate location"
}

// AccessPolicy describes who may read a candidate location
type AccessPolicy string

const (
	// AccessOpen requires no credentials at all
	AccessOpen AccessPolicy = "open"
	// AccessRestricted requires caller credentials
	AccessRestricted AccessPolicy = "restricted"
	// AccessRegion is readable only from within the provider region, which this
	// resolver cannot verify; the tag is propagated so the transfer layer can react
	AccessRegion AccessPolicy = "region"
	// DefaultAccessPolicy is assumed when a descriptor entry omits the access key
	DefaultAccessPolicy AccessPolicy = AccessRestricted
)

// AvailablePolicies returns a list of valid access policies
func AvailablePolicies() []string {
	return []string{
		string(AccessOpen),
		string(AccessRestricted),
		string(AccessRegion),
	}
}

// ParseAccessPolicy parses an access policy string, mapping the empty string
// to DefaultAccessPolicy
func ParseAccessPolicy(value string) (AccessPolicy, error) {
	switch value {
	case "":
		return DefaultAccessPolicy, nil
	case string(AccessOpen):
		return AccessOpen, nil
	case string(AccessRestricted):
		return AccessRestricted, nil
	case string(AccessRegion):
		return AccessRegion, nil
	default:
		return "", fmt.Errorf("invalid access policy: %q", value)
	}
}

// JSONSchemaExtend extends the JSON schema for AccessPolicy
func (AccessPolicy) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Type = "string"
	all := []any{}
	for _, p := range AvailablePolicies() {
		all = append(all, p)
	}
	schema.Enum = all
	schema.Description = "Access policy for a candidate location"
}

// CloudLocation is one candidate storage location for a data product
type CloudLocation struct {
	// Provider tags which storage system holds the candidate
	Provider Provider
	// Label preserves the original descriptor key for ProviderOther entries
	Label string
	// Identifier is the bucket name, or the base server URL for on-prem
	Identifier string
	// Key is the object key within the bucket, empty for on-prem
	Key string
	// Region is the provider region, empty meaning the provider default
	Region string
	// Access is the access policy for this candidate
	Access AccessPolicy
}

// Validate checks the location invariant: any non on-prem candidate must name
// both a bucket and a key
func (l CloudLocation) Validate() error {
	if l.Identifier == "" {
		return fmt.Errorf("location has no identifier")
	}
	if l.Provider != ProviderOnPrem && l.Key == "" {
		return fmt.Errorf("%s location %q has no key", l.Provider, l.Identifier)
	}
	return nil
}

// String implements fmt.Stringer
func (l CloudLocation) String() string {
	name := string(l.Provider)
	if l.Provider == ProviderOther && l.Label != "" {
		name = l.Label
	}
	if l.Key == "" {
		return fmt.Sprintf("|%s| %s", name, l.Identifier)
	}
	return fmt.Sprintf("|%s| %s/%s", name, l.Identifier, l.Key)
}

// LocationSet is the normalized result of parsing one cloud_access descriptor.
//
// It always contains a synthetic on-prem candidate derived from the record's
// access_url, used as the lowest-priority fallback unless explicitly requested.
type LocationSet struct {
	onPrem     CloudLocation
	candidates map[Provider][]CloudLocation
}

// NewLocationSet creates a LocationSet seeded with the synthetic on-prem
// candidate for the given access URL
func NewLocationSet(accessURL string) LocationSet {
	return LocationSet{
		onPrem: CloudLocation{
			Provider:   ProviderOnPrem,
			Identifier: accessURL,
			Access:     AccessOpen,
		},
		candidates: map[Provider][]CloudLocation{},
	}
}

// OnPrem returns the synthetic on-prem candidate
func (s LocationSet) OnPrem() CloudLocation {
	return s.onPrem
}

// Add appends a candidate to its provider's ordered list
//
// List order is selection priority within a provider
func (s *LocationSet) Add(loc CloudLocation) {
	if s.candidates == nil {
		s.candidates = map[Provider][]CloudLocation{}
	}
	s.candidates[loc.Provider] = append(s.candidates[loc.Provider], loc)
}

// Candidates returns the ordered candidates for a provider
func (s LocationSet) Candidates(p Provider) []CloudLocation {
	return s.candidates[p]
}

// ByLabel returns ProviderOther candidates preserved under the given
// descriptor key, so callers can still discover providers this resolver
// does not recognize
func (s LocationSet) ByLabel(label string) []CloudLocation {
	var out []CloudLocation
	for _, loc := range s.candidates[ProviderOther] {
		if loc.Label == label {
			out = append(out, loc)
		}
	}
	return out
}

// Providers returns the providers with at least one candidate, sorted,
// excluding the synthetic on-prem entry
func (s LocationSet) Providers() []Provider {
	names := make([]Provider, 0, len(s.candidates))
	for p := range s.candidates {
		names = append(names, p)
	}
	slices.Sort(names)
	return names
}

// Len returns the total number of parsed candidates, excluding the synthetic
// on-prem entry
func (s LocationSet) Len() int {
	n := 0
	for _, locs := range s.candidates {
		n += len(locs)
	}
	return n
}
