// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package sources

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/heliodata/skyhook/descriptor"
)

// Filter is a compiled candidate predicate, e.g.
//
//	provider == "aws" && region startsWith "us-"
//
// applied to every parsed candidate before selection. The synthetic on-prem
// entry is never filtered, resolution must always have a fallback.
type Filter struct {
	src     string
	program *vm.Program
}

// CompileFilter compiles a filter expression, returning nil for empty input
func CompileFilter(src string) (*Filter, error) {
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &Filter{src: src, program: program}, nil
}

// String implements fmt.Stringer
func (f *Filter) String() string {
	return f.src
}

// Keep evaluates the predicate against one candidate
func (f *Filter) Keep(loc descriptor.CloudLocation) (bool, error) {
	env := map[string]any{
		"provider": string(loc.Provider),
		"label":    loc.Label,
		"bucket":   loc.Identifier,
		"key":      loc.Key,
		"region":   loc.Region,
		"access":   string(loc.Access),
	}
	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.src, err)
	}
	return out.(bool), nil
}

// Apply returns a copy of the set containing only candidates the predicate
// accepts, plus the untouched on-prem entry. A nil filter keeps everything.
func (f *Filter) Apply(set descriptor.LocationSet) (descriptor.LocationSet, error) {
	if f == nil {
		return set, nil
	}

	out := descriptor.NewLocationSet(set.OnPrem().Identifier)
	for _, p := range set.Providers() {
		for _, loc := range set.Candidates(p) {
			keep, err := f.Keep(loc)
			if err != nil {
				return set, err
			}
			if keep {
				out.Add(loc)
			}
		}
	}
	return out, nil
}
