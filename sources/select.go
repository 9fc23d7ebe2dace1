// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package sources

import (
	"github.com/heliodata/skyhook/descriptor"
)

// Select picks one candidate location from the set for the request.
//
// The "default" request returns the synthetic on-prem entry directly. A cloud
// request returns the first candidate of the requested provider whose region
// matches the request, relaxing to the provider's first candidate when no
// region matches. A request whose provider is absent from the set, or which
// this resolver does not support, falls back to the on-prem entry and reports
// fallback=true.
//
// Selection is deterministic: the same set and request always yield the same
// candidate, and never an error.
func Select(set descriptor.LocationSet, req SourceRequest) (descriptor.CloudLocation, bool) {
	if req.IsDefault() {
		return set.OnPrem(), false
	}

	// other-tagged candidates are discoverable via ByLabel but never
	// selectable, no handle can be built for them
	if req.Provider == descriptor.ProviderOther {
		return set.OnPrem(), true
	}

	candidates := set.Candidates(req.Provider)
	if len(candidates) == 0 {
		return set.OnPrem(), true
	}

	if req.Region != "" {
		for _, loc := range candidates {
			if loc.Region == req.Region {
				return loc, false
			}
		}
	}
	return candidates[0], false
}
