// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package descriptor

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// Schema returns the JSON schema for a cloud_access descriptor: an object
// whose keys are provider names and whose values are a location object or a
// list of location objects
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{}
	reflected := reflector.Reflect(&LocationObject{})

	schema := &jsonschema.Schema{
		Version:     reflected.Version,
		ID:          "https://raw.githubusercontent.com/heliodata/skyhook/main/cloud_access.schema.json",
		Type:        "object",
		Definitions: reflected.Definitions,
		AdditionalProperties: &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Ref: "#/$defs/LocationObject"},
				{
					Type:  "array",
					Items: &jsonschema.Schema{Ref: "#/$defs/LocationObject"},
				},
			},
		},
	}

	return schema
}

// Only calculate the schema once, every validation leverages the same one
var schemaOnce = sync.OnceValues(func() (string, error) {
	s := Schema()
	b, err := json.Marshal(s)
	return string(b), err
})

// Validate checks raw cloud_access JSON text against the descriptor schema.
//
// Unlike Parse it is all-or-nothing: any schema violation fails the whole
// descriptor. It backs strict mode, where callers prefer a hard error over
// best-effort entry recovery.
func Validate(raw string) error {
	schema, err := schemaOnce()
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	var resErr error
	for _, err := range result.Errors() {
		resErr = errors.Join(resErr, errors.New(err.String()))
	}

	return resErr
}
