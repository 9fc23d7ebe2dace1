// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package skyhook

import (
	"fmt"

	"github.com/invopop/jsonschema"

	configv0 "github.com/heliodata/skyhook/config/v0"
	"github.com/heliodata/skyhook/descriptor"
)

// Schema names this module publishes
const (
	SchemaDescriptor = "descriptor"
	SchemaConfig     = "config"
)

// SchemaFor returns one of the JSON schemas this module publishes: the
// cloud_access descriptor schema or the system config schema
func SchemaFor(name string) (*jsonschema.Schema, error) {
	switch name {
	case SchemaDescriptor:
		return descriptor.Schema(), nil
	case SchemaConfig:
		return configv0.Schema(), nil
	default:
		return nil, fmt.Errorf("unknown schema %q, expected %q or %q", name, SchemaDescriptor, SchemaConfig)
	}
}
