// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package skyhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/heliodata/skyhook/credentials"
	"github.com/heliodata/skyhook/descriptor"
	"github.com/heliodata/skyhook/sources"
)

// Record is one catalog data product row: the archive's HTTP access URL plus
// an optional cloud_access descriptor as raw JSON text
type Record struct {
	AccessURL   string `json:"access_url"`
	CloudAccess string `json:"cloud_access,omitempty"`
}

// ReadRecord decodes a single record from JSON
func ReadRecord(r io.Reader) (Record, error) {
	var record Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&record); err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}
	if record.AccessURL == "" {
		return Record{}, errors.New("record has no access_url")
	}
	return record, nil
}

// ResolveOptions configures a resolution
type ResolveOptions struct {
	// Profile names a credential profile, failing fast when absent
	Profile string
	// Explicit short-circuits the credential chain
	Explicit *credentials.CredentialSet
	// Store backs profile lookups
	Store credentials.Store
	// Env probes the process environment, defaulting to the real one
	Env credentials.Provider
	// Filter optionally restricts candidates before selection
	Filter *sources.Filter
	// Strict makes descriptor parse errors fatal instead of best-effort
	Strict bool
}

// Resolve turns one record and one source request into a FetchHandle:
// parse the descriptor, filter and select a candidate, classify its access
// policy, run the credential chain, build the handle.
//
// Resolution is side-effect free: no network calls, no cache, no global
// state. Descriptor parse errors are logged and skipped unless Strict is set.
func Resolve(ctx context.Context, record Record, req sources.SourceRequest, opts ResolveOptions) (FetchHandle, error) {
	logger := log.FromContext(ctx)

	if record.AccessURL == "" {
		return FetchHandle{}, errors.New("record has no access_url")
	}

	if opts.Strict && record.CloudAccess != "" {
		if err := descriptor.Validate(record.CloudAccess); err != nil {
			return FetchHandle{}, err
		}
	}

	set, err := descriptor.Parse(record.CloudAccess, record.AccessURL)
	if err != nil {
		if opts.Strict {
			return FetchHandle{}, err
		}
		logger.Warn("skipping malformed descriptor entries", "error", err)
	}

	set, err = opts.Filter.Apply(set)
	if err != nil {
		return FetchHandle{}, err
	}

	loc, fallback := sources.Select(set, req)
	if fallback {
		logger.Warn("requested source is unavailable, falling back to on-prem", "source", req.Token, "url", loc.Identifier)
	}

	policy := credentials.Classify(loc)
	if policy == descriptor.AccessRegion {
		logger.Warn("location is region restricted, access is not verified locally", "location", loc.String(), "region", loc.Region)
	}

	creds, err := credentials.Resolve(ctx, loc, credentials.Options{
		Explicit: opts.Explicit,
		Profile:  opts.Profile,
		Store:    opts.Store,
		Env:      opts.Env,
	})
	if err != nil {
		return FetchHandle{}, err
	}

	return BuildHandle(loc, creds, fallback)
}

// ResolveAll resolves a batch of records against the same request.
//
// Records are independent: a failing record contributes a zero handle at its
// index and a "record %d" scoped entry in the joined error, without
// disturbing its neighbors.
func ResolveAll(ctx context.Context, records []Record, req sources.SourceRequest, opts ResolveOptions) ([]FetchHandle, error) {
	handles := make([]FetchHandle, len(records))

	var errs error
	for idx, record := range records {
		handle, err := Resolve(ctx, record, req, opts)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("record %d: %w", idx, err))
			continue
		}
		handles[idx] = handle
	}

	return handles, errs
}
