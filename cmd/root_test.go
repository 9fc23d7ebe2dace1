// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	require.NotNil(t, root)
	assert.Equal(t, "skyhook [record.json...]", root.Use)

	for flag, def := range map[string]string{
		"source":    "default",
		"output":    "pretty",
		"log-level": "info",
		"profile":   "",
		"filter":    "",
		"strict":    "false",
	} {
		f := root.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, def, f.DefValue, flag)
	}
}

func TestParseExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ParseExitCode(nil))
	assert.Equal(t, 1, ParseExitCode(assert.AnError))
}

func TestRenderMarkdown(t *testing.T) {
	t.Setenv("NO_COLOR", "true")

	var buf strings.Builder
	require.NoError(t, renderMarkdown(&buf, "# hello\n\nworld\n"))
	assert.Equal(t, "# hello\n\nworld\n", buf.String())
}
