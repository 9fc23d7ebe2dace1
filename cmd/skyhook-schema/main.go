// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package main is the entry point for the application.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/heliodata/skyhook/descriptor"
)

func main() {
	schema := descriptor.Schema()

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v", err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stdout, string(b))
}
