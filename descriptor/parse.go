// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package descriptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// ParseError reports a malformed or incomplete piece of a cloud_access
// descriptor, scoped to a single provider entry when possible
type ParseError struct {
	// Provider is the descriptor key of the offending entry, empty when the
	// whole descriptor failed to parse
	Provider string
	// Index is the position of the offending entry within the provider's
	// list, -1 when the error is not entry-scoped
	Index int
	Err   error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	switch {
	case e.Provider == "":
		return fmt.Sprintf("cloud_access: %v", e.Err)
	case e.Index < 0:
		return fmt.Sprintf("cloud_access: provider %q: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("cloud_access: provider %q entry %d: %v", e.Provider, e.Index, e.Err)
	}
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// LocationObject is the wire shape of one descriptor entry
type LocationObject struct {
	BucketName string       `json:"bucket_name"        jsonschema:"description=Bucket or container name"`
	Key        string       `json:"key"                jsonschema:"description=Object key within the bucket"`
	Region     string       `json:"region,omitempty"   jsonschema:"description=Provider region of the bucket"`
	Access     AccessPolicy `json:"access,omitempty"   jsonschema:"description=Access policy of the entry"`
}

// Parse normalizes raw cloud_access JSON text into a LocationSet.
//
// Top-level keys are provider names, each holding either a single location
// object or an ordered list of them (list order is selection priority).
// Unknown keys are preserved as ProviderOther entries rather than dropped.
// Parsing is best-effort per entry: a malformed entry yields an entry-scoped
// ParseError without invalidating its siblings, and the returned LocationSet
// always carries the synthetic on-prem candidate derived from accessURL, so
// a non-nil error never means resolution is impossible.
//
// Parse is a pure function of its inputs.
func Parse(raw string, accessURL string) (LocationSet, error) {
	set := NewLocationSet(accessURL)

	if strings.TrimSpace(raw) == "" {
		return set, nil
	}

	var top map[string]any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return set, &ParseError{Index: -1, Err: err}
	}

	var errs error
	for _, key := range slices.Sorted(maps.Keys(top)) {
		entries, err := normalizeEntries(top[key])
		if err != nil {
			errs = errors.Join(errs, &ParseError{Provider: key, Index: -1, Err: err})
			continue
		}

		for idx, entry := range entries {
			loc, err := decodeEntry(key, entry)
			if err != nil {
				errs = errors.Join(errs, &ParseError{Provider: key, Index: idx, Err: err})
				continue
			}
			set.Add(loc)
		}
	}

	return set, errs
}

// normalizeEntries eagerly flattens the one-or-many descriptor shape into
// an ordered list, eliminating the polymorphism from everything downstream
func normalizeEntries(value any) ([]map[string]any, error) {
	if m, err := cast.ToStringMapE(value); err == nil {
		return []map[string]any{m}, nil
	}

	list, err := cast.ToSliceE(value)
	if err != nil {
		return nil, errors.New("must be a location object or a list of location objects")
	}

	entries := make([]map[string]any, 0, len(list))
	for _, elem := range list {
		m, err := cast.ToStringMapE(elem)
		if err != nil {
			return nil, errors.New("list elements must be location objects")
		}
		entries = append(entries, m)
	}
	return entries, nil
}

func decodeEntry(key string, entry map[string]any) (CloudLocation, error) {
	var obj LocationObject
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &obj,
	})
	if err != nil {
		return CloudLocation{}, err
	}
	if err := decoder.Decode(entry); err != nil {
		return CloudLocation{}, err
	}

	if obj.BucketName == "" {
		return CloudLocation{}, errors.New("missing bucket_name")
	}
	if obj.Key == "" {
		return CloudLocation{}, errors.New("missing key")
	}

	access, err := ParseAccessPolicy(string(obj.Access))
	if err != nil {
		return CloudLocation{}, err
	}

	loc := CloudLocation{
		Provider:   providerForKey(key),
		Identifier: obj.BucketName,
		Key:        obj.Key,
		Region:     obj.Region,
		Access:     access,
	}
	if loc.Provider == ProviderOther {
		loc.Label = key
	}
	return loc, nil
}

// providerForKey maps a descriptor key to a provider tag
//
// "gc" is accepted as shorthand for google-cloud, mirroring the source
// tokens some archive servers advertise
func providerForKey(key string) Provider {
	switch key {
	case string(ProviderAWS):
		return ProviderAWS
	case string(ProviderGoogleCloud), "gc":
		return ProviderGoogleCloud
	default:
		return ProviderOther
	}
}
