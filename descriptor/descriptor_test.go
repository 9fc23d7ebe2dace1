// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAccessPolicy(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		want        AccessPolicy
		expectedErr string
	}{
		{name: "open", value: "open", want: AccessOpen},
		{name: "restricted", value: "restricted", want: AccessRestricted},
		{name: "region", value: "region", want: AccessRegion},
		{name: "empty defaults to restricted", value: "", want: AccessRestricted},
		{name: "invalid", value: "public", expectedErr: `invalid access policy: "public"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAccessPolicy(tt.value)
			if tt.expectedErr != "" {
				require.EqualError(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCloudLocationValidate(t *testing.T) {
	tests := []struct {
		name        string
		loc         CloudLocation
		expectedErr string
	}{
		{
			name: "valid aws",
			loc:  CloudLocation{Provider: ProviderAWS, Identifier: "bucket", Key: "key"},
		},
		{
			name: "valid on-prem without key",
			loc:  CloudLocation{Provider: ProviderOnPrem, Identifier: "https://archive.example.com/a.fits"},
		},
		{
			name:        "no identifier",
			loc:         CloudLocation{Provider: ProviderAWS, Key: "key"},
			expectedErr: "location has no identifier",
		},
		{
			name:        "cloud location without key",
			loc:         CloudLocation{Provider: ProviderGoogleCloud, Identifier: "bucket"},
			expectedErr: `google-cloud location "bucket" has no key`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.loc.Validate()
			if tt.expectedErr != "" {
				require.EqualError(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLocationSetAccessors(t *testing.T) {
	t.Parallel()

	set := NewLocationSet("https://archive.example.com/a.fits")
	require.Zero(t, set.Len())
	require.Empty(t, set.Providers())

	set.Add(CloudLocation{Provider: ProviderAWS, Identifier: "b2", Key: "k2"})
	set.Add(CloudLocation{Provider: ProviderAWS, Identifier: "b1", Key: "k1"})
	set.Add(CloudLocation{Provider: ProviderOther, Label: "azure", Identifier: "c", Key: "b"})
	set.Add(CloudLocation{Provider: ProviderOther, Label: "swift", Identifier: "c2", Key: "b2"})

	require.Equal(t, 4, set.Len())
	require.Equal(t, []Provider{ProviderAWS, ProviderOther}, set.Providers())

	// insertion order is selection priority
	aws := set.Candidates(ProviderAWS)
	require.Len(t, aws, 2)
	require.Equal(t, "b2", aws[0].Identifier)

	azure := set.ByLabel("azure")
	require.Len(t, azure, 1)
	require.Equal(t, "c", azure[0].Identifier)
	require.Empty(t, set.ByLabel("oci"))
}

func TestCloudLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  CloudLocation
		want string
	}{
		{
			name: "aws",
			loc:  CloudLocation{Provider: ProviderAWS, Identifier: "bucket", Key: "a/b.fits"},
			want: "|aws| bucket/a/b.fits",
		},
		{
			name: "on-prem",
			loc:  CloudLocation{Provider: ProviderOnPrem, Identifier: "https://archive.example.com/a.fits"},
			want: "|on-prem| https://archive.example.com/a.fits",
		},
		{
			name: "other keeps label",
			loc:  CloudLocation{Provider: ProviderOther, Label: "azure", Identifier: "c", Key: "b"},
			want: "|azure| c/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.loc.String())
		})
	}
}
