// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/heliodata/skyhook/descriptor"
)

// Option is one server-advertised source, an identifier plus a human label,
// e.g. {"aws:us-east-1", "AWS US East"}
type Option struct {
	Identifier string
	Label      string
}

// Row is one link-resolution result row for a data product: a source token,
// the URL the server would hand out for that source, and an optional inline
// cloud_access descriptor
type Row struct {
	Source      string
	AccessURL   string
	CloudAccess string
}

// FromRows maps a link-resolution response onto a LocationSet so the selector
// applies identically to datalink-advertised sources and inline descriptors.
//
// When the server advertises an option list, rows whose source is not among
// the advertised identifiers are skipped with a warning. Each row contributes
// either its inline descriptor's candidates or a single candidate derived
// from a cloud URI access_url; rows the resolver cannot place are skipped,
// never fatal, and reported in the joined error.
func FromRows(ctx context.Context, opts []Option, rows []Row, accessURL string) (descriptor.LocationSet, error) {
	logger := log.FromContext(ctx)
	set := descriptor.NewLocationSet(accessURL)

	advertised := map[string]bool{}
	for _, opt := range opts {
		advertised[opt.Identifier] = true
	}

	var errs error
	for idx, row := range rows {
		if len(advertised) > 0 && !advertised[row.Source] {
			logger.Warn("skipping row for unadvertised source", "source", row.Source, "row", idx)
			continue
		}

		req, err := ParseSource(row.Source)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("row %d: %w", idx, err))
			continue
		}

		if row.CloudAccess != "" {
			sub, err := descriptor.Parse(row.CloudAccess, accessURL)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("row %d: %w", idx, err))
			}
			for _, p := range sub.Providers() {
				for _, loc := range sub.Candidates(p) {
					if loc.Region == "" {
						loc.Region = req.Region
					}
					set.Add(loc)
				}
			}
			continue
		}

		if req.IsDefault() {
			// the synthetic on-prem entry already covers this row
			continue
		}

		loc, err := ParseCloudURI(row.AccessURL)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("row %d: %w", idx, err))
			continue
		}
		if loc.Region == "" {
			loc.Region = req.Region
		}
		set.Add(loc)
	}

	return set, errs
}

// ParseCloudURI derives a candidate location from a cloud object URI of the
// form s3://bucket/key or gs://bucket/key.
//
// Datalink rows carry no access policy, so the derived candidate gets the
// default policy.
func ParseCloudURI(uri string) (descriptor.CloudLocation, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return descriptor.CloudLocation{}, fmt.Errorf("invalid cloud URI %q: %w", uri, err)
	}

	var provider descriptor.Provider
	switch u.Scheme {
	case "s3":
		provider = descriptor.ProviderAWS
	case "gs":
		provider = descriptor.ProviderGoogleCloud
	default:
		return descriptor.CloudLocation{}, fmt.Errorf("unsupported cloud URI scheme: %q", u.Scheme)
	}

	key := strings.TrimPrefix(u.Path, "/")
	loc := descriptor.CloudLocation{
		Provider:   provider,
		Identifier: u.Host,
		Key:        key,
		Access:     descriptor.DefaultAccessPolicy,
	}
	if err := loc.Validate(); err != nil {
		return descriptor.CloudLocation{}, fmt.Errorf("invalid cloud URI %q: %w", uri, err)
	}
	return loc, nil
}
