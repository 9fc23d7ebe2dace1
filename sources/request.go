// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package sources selects a candidate location for a requested source.
package sources

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/heliodata/skyhook/descriptor"
)

// DefaultToken is the sentinel source meaning the on-prem server
const DefaultToken = "default"

// SourceRequest is the caller's intent: a provider plus an optional region
// qualifier, e.g. "aws", "aws:us-east-1", or the "default" sentinel
type SourceRequest struct {
	// Token is the raw requested token, preserved for diagnostics
	Token string
	// Provider is the recognized provider tag, ProviderOther when the token
	// names a provider this resolver does not support
	Provider descriptor.Provider
	// Region optionally narrows the request within the provider
	Region string
}

var _ pflag.Value = (*SourceRequest)(nil)

// DefaultSource returns the request for the on-prem server
func DefaultSource() SourceRequest {
	return SourceRequest{Token: DefaultToken, Provider: descriptor.ProviderOnPrem}
}

// ParseSource parses a source token of the form "provider[:region]".
//
// "default", "main-server", "prem" and "on-prem" all name the on-prem server;
// "gc" is shorthand for google-cloud. Unrecognized providers parse without
// error: selection degrades gracefully to on-prem instead of failing.
func ParseSource(token string) (SourceRequest, error) {
	token = strings.TrimSpace(token)
	if token == "" || token == DefaultToken {
		return DefaultSource(), nil
	}

	name, region, _ := strings.Cut(token, ":")
	if name == "" {
		return SourceRequest{}, fmt.Errorf("invalid source token: %q", token)
	}

	req := SourceRequest{Token: token, Region: region}
	switch name {
	case string(descriptor.ProviderAWS):
		req.Provider = descriptor.ProviderAWS
	case string(descriptor.ProviderGoogleCloud), "gc":
		req.Provider = descriptor.ProviderGoogleCloud
	case string(descriptor.ProviderOnPrem), "prem", "main-server":
		req.Provider = descriptor.ProviderOnPrem
	default:
		req.Provider = descriptor.ProviderOther
	}
	return req, nil
}

// IsDefault reports whether the request names the on-prem server
func (r SourceRequest) IsDefault() bool {
	return r.Provider == descriptor.ProviderOnPrem
}

// String implements pflag.Value and fmt.Stringer
func (r *SourceRequest) String() string {
	if r.Token == "" {
		return DefaultToken
	}
	return r.Token
}

// Set implements pflag.Value
func (r *SourceRequest) Set(value string) error {
	// fix fish needing quoted tokens for tab completion
	value = strings.Trim(value, `"`)
	value = strings.Trim(value, `'`)

	parsed, err := ParseSource(value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Type implements pflag.Value
func (r *SourceRequest) Type() string {
	return "source"
}

// ResolveAlias maps a user-defined shorthand token to its configured
// provider[:region] form, returning the token unchanged when no alias matches
func ResolveAlias(token string, aliases map[string]string) string {
	if resolved, ok := aliases[token]; ok {
		return resolved
	}
	return token
}
