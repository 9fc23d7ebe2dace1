// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package skyhook

import (
	"context"
	"fmt"
	"strings"

	"github.com/heliodata/skyhook/credentials"
	"github.com/heliodata/skyhook/descriptor"
	"github.com/heliodata/skyhook/sources"
)

// Explain performs a resolution and renders the full decision as markdown:
// every candidate, which one was selected and why, the access policy, and
// the credential chain outcome.
//
// A failed credential chain is part of the explanation, not an error; only
// strict-mode descriptor failures abort.
func Explain(ctx context.Context, record Record, req sources.SourceRequest, opts ResolveOptions) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# resolving %s\n\n", record.AccessURL)
	fmt.Fprintf(&sb, "requested source: `%s`\n\n", req.String())

	if opts.Strict && record.CloudAccess != "" {
		if err := descriptor.Validate(record.CloudAccess); err != nil {
			return "", err
		}
	}

	set, parseErr := descriptor.Parse(record.CloudAccess, record.AccessURL)
	if parseErr != nil {
		if opts.Strict {
			return "", parseErr
		}
		fmt.Fprintf(&sb, "> [!WARNING]\n> %v\n\n", parseErr)
	}

	set, err := opts.Filter.Apply(set)
	if err != nil {
		return "", err
	}
	if opts.Filter != nil {
		fmt.Fprintf(&sb, "filter: `%s`\n\n", opts.Filter.String())
	}

	sb.WriteString("## candidates\n\n")
	sb.WriteString("| provider | location | region | access |\n")
	sb.WriteString("|----------|----------|--------|--------|\n")
	onPrem := set.OnPrem()
	fmt.Fprintf(&sb, "| %s | %s | | %s |\n", onPrem.Provider, onPrem.Identifier, onPrem.Access)
	for _, p := range set.Providers() {
		for _, loc := range set.Candidates(p) {
			name := string(loc.Provider)
			if loc.Provider == descriptor.ProviderOther {
				name = fmt.Sprintf("%s (unsupported)", loc.Label)
			}
			fmt.Fprintf(&sb, "| %s | %s/%s | %s | %s |\n", name, loc.Identifier, loc.Key, loc.Region, loc.Access)
		}
	}

	loc, fallback := sources.Select(set, req)

	sb.WriteString("\n## decision\n\n")
	fmt.Fprintf(&sb, "selected `%s`\n\n", loc.String())
	if fallback {
		fmt.Fprintf(&sb, "> [!NOTE]\n> source `%s` is unavailable, fell back to the on-prem server\n\n", req.Token)
	}

	policy := credentials.Classify(loc)
	fmt.Fprintf(&sb, "access policy: `%s`\n\n", policy)
	if policy == descriptor.AccessRegion {
		sb.WriteString("> [!WARNING]\n> region restricted, access is only possible from within the provider region and is not verified locally\n\n")
	}

	sb.WriteString("## credentials\n\n")
	creds, err := credentials.Resolve(ctx, loc, credentials.Options{
		Explicit: opts.Explicit,
		Profile:  opts.Profile,
		Store:    opts.Store,
		Env:      opts.Env,
	})
	if err != nil {
		fmt.Fprintf(&sb, "resolution failed: `%v`\n", err)
		return sb.String(), nil
	}
	fmt.Fprintf(&sb, "resolved: `%s`\n\n", creds.Redacted())

	handle, err := BuildHandle(loc, creds, fallback)
	if err != nil {
		return "", err
	}

	sb.WriteString("## handle\n\n")
	fmt.Fprintf(&sb, "```\n%s %s\n```\n", handle.Scheme, handle.URI)

	return sb.String(), nil
}
