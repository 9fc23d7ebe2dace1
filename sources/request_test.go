// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package sources

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heliodata/skyhook/descriptor"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		expected    SourceRequest
		expectedErr string
	}{
		{
			name:     "empty is default",
			token:    "",
			expected: DefaultSource(),
		},
		{
			name:     "default sentinel",
			token:    "default",
			expected: DefaultSource(),
		},
		{
			name:     "main-server names on-prem",
			token:    "main-server",
			expected: SourceRequest{Token: "main-server", Provider: descriptor.ProviderOnPrem},
		},
		{
			name:     "prem names on-prem",
			token:    "prem",
			expected: SourceRequest{Token: "prem", Provider: descriptor.ProviderOnPrem},
		},
		{
			name:     "aws",
			token:    "aws",
			expected: SourceRequest{Token: "aws", Provider: descriptor.ProviderAWS},
		},
		{
			name:     "aws with region",
			token:    "aws:us-east-1",
			expected: SourceRequest{Token: "aws:us-east-1", Provider: descriptor.ProviderAWS, Region: "us-east-1"},
		},
		{
			name:     "gc shorthand",
			token:    "gc:europe-west1",
			expected: SourceRequest{Token: "gc:europe-west1", Provider: descriptor.ProviderGoogleCloud, Region: "europe-west1"},
		},
		{
			name:     "unrecognized provider parses as other",
			token:    "azure",
			expected: SourceRequest{Token: "azure", Provider: descriptor.ProviderOther},
		},
		{
			name:     "whitespace is trimmed",
			token:    "  aws  ",
			expected: SourceRequest{Token: "aws", Provider: descriptor.ProviderAWS},
		},
		{
			name:        "bare region is invalid",
			token:       ":us-east-1",
			expectedErr: `invalid source token: ":us-east-1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := ParseSource(tt.token)
			if tt.expectedErr != "" {
				require.EqualError(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, req)
		})
	}
}

func TestSourceRequestFlagValue(t *testing.T) {
	t.Parallel()

	var req SourceRequest
	require.Equal(t, "source", req.Type())
	require.Equal(t, "default", req.String())

	require.NoError(t, req.Set(`"aws:us-west-2"`))
	require.Equal(t, descriptor.ProviderAWS, req.Provider)
	require.Equal(t, "us-west-2", req.Region)
	require.Equal(t, "aws:us-west-2", req.String())

	require.EqualError(t, req.Set(":bad"), `invalid source token: ":bad"`)
}

func TestResolveAlias(t *testing.T) {
	t.Parallel()

	aliases := map[string]string{"hst-cloud": "aws:us-east-1"}

	require.Equal(t, "aws:us-east-1", ResolveAlias("hst-cloud", aliases))
	require.Equal(t, "aws", ResolveAlias("aws", aliases))
	require.Equal(t, "aws", ResolveAlias("aws", nil))
}
