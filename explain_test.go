// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package skyhook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExplain(t *testing.T) {
	record := Record{
		AccessURL: onPremURL,
		CloudAccess: `{
			"aws": [
				{"bucket_name": "east", "key": "a/b.fits", "region": "us-east-1", "access": "open"},
				{"bucket_name": "west", "key": "a/b.fits", "region": "us-west-2", "access": "region"}
			],
			"azure": {"bucket_name": "az", "key": "a/b.fits"}
		}`,
	}

	t.Run("full decision", func(t *testing.T) {
		t.Parallel()
		md, err := Explain(t.Context(), record, mustSource(t, "aws"), ResolveOptions{})
		require.NoError(t, err)

		require.Contains(t, md, "# resolving "+onPremURL)
		require.Contains(t, md, "requested source: `aws`")
		require.Contains(t, md, "| aws | east/a/b.fits | us-east-1 | open |")
		require.Contains(t, md, "| azure (unsupported) | az/a/b.fits |")
		require.Contains(t, md, "| on-prem | "+onPremURL+" | | open |")
		require.Contains(t, md, "selected `|aws| east/a/b.fits`")
		require.Contains(t, md, "access policy: `open`")
		require.Contains(t, md, "resolved: `none`")
		require.Contains(t, md, "s3 s3://east/a/b.fits")
	})

	t.Run("fallback is explained", func(t *testing.T) {
		t.Parallel()
		md, err := Explain(t.Context(), record, mustSource(t, "google-cloud"), ResolveOptions{})
		require.NoError(t, err)
		require.Contains(t, md, "fell back to the on-prem server")
		require.Contains(t, md, "https "+onPremURL)
	})

	t.Run("region restriction is explained", func(t *testing.T) {
		t.Parallel()
		md, err := Explain(t.Context(), record, mustSource(t, "aws:us-west-2"), ResolveOptions{Env: mapEnv(map[string]string{
			"AWS_ACCESS_KEY_ID":     "AKIA",
			"AWS_SECRET_ACCESS_KEY": "s3cr3t",
		})})
		require.NoError(t, err)
		require.Contains(t, md, "region restricted")
		require.Contains(t, md, "resolved: `environment[access_key_id,secret_access_key]`")
	})

	t.Run("credential failure is part of the explanation", func(t *testing.T) {
		t.Parallel()
		md, err := Explain(t.Context(), record, mustSource(t, "aws:us-west-2"), ResolveOptions{Env: noEnv()})
		require.NoError(t, err)
		require.Contains(t, md, "resolution failed: `no-credentials-available (tried anonymous, environment)`")
		require.NotContains(t, md, "## handle")
	})

	t.Run("strict mode aborts on a bad descriptor", func(t *testing.T) {
		t.Parallel()
		bad := Record{AccessURL: onPremURL, CloudAccess: `{"aws": 5}`}

		_, err := Explain(t.Context(), bad, mustSource(t, "aws"), ResolveOptions{Strict: true})
		require.Error(t, err)

		md, err := Explain(t.Context(), bad, mustSource(t, "aws"), ResolveOptions{})
		require.NoError(t, err)
		require.Contains(t, md, "[!WARNING]")
	})
}

func TestSchemaFor(t *testing.T) {
	t.Parallel()

	for _, name := range []string{SchemaDescriptor, SchemaConfig} {
		schema, err := SchemaFor(name)
		require.NoError(t, err)
		require.NotNil(t, schema)
	}

	_, err := SchemaFor("nope")
	require.EqualError(t, err, `unknown schema "nope", expected "descriptor" or "config"`)
}
