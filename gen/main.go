// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package main provides the entry point for the application.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	configv0 "github.com/heliodata/skyhook/config/v0"
	"github.com/heliodata/skyhook/descriptor"
)

func run(root string) error {
	for name, schema := range map[string]any{
		"cloud_access.schema.json":   descriptor.Schema(),
		"skyhook-config.schema.json": configv0.Schema(),
	} {
		b, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return err
		}

		if err := os.WriteFile(filepath.Join(root, name), b, 0644); err != nil {
			return err
		}
	}

	return nil
}

// main is the entry point for the application
func main() {
	// usage: `go run gen/main.go`
	if err := run(""); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
