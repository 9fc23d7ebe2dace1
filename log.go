// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package skyhook

import (
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// PrintHandle renders a handle as syntax-highlighted JSON, falling back to
// plain text when color is disabled. Credential material never appears, the
// handle's JSON shape excludes it.
func PrintHandle(logger *log.Logger, handle FetchHandle) {
	b, err := json.MarshalIndent(handle, "", "  ")
	if err != nil {
		logger.Debugf("failed to marshal handle: %v", err)
		return
	}

	if termenv.EnvNoColor() {
		logger.Printf("%s", string(b))
		return
	}

	style := "tokyonight-day"
	if lipgloss.HasDarkBackground() {
		style = "tokyonight-moon"
	}

	var buf strings.Builder
	if err := quick.Highlight(&buf, string(b), "json", "terminal256", style); err != nil {
		logger.Debugf("failed to highlight: %v", err)
		logger.Printf("%s", string(b))
		return
	}

	logger.Printf("%s", strings.TrimSpace(buf.String()))
}
