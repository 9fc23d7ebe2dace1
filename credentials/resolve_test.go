// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heliodata/skyhook/descriptor"
)

// recordingProvider counts lookups so tests can assert open data is never probed
type recordingProvider struct {
	lookups int
	creds   CredentialSet
	found   bool
	err     error
}

func (p *recordingProvider) Lookup(_ context.Context, _ descriptor.Provider) (CredentialSet, bool, error) {
	p.lookups++
	return p.creds, p.found, p.err
}

// fakeStore is an in-memory Store
type fakeStore struct {
	profiles map[string]CredentialSet
}

func (s fakeStore) Profile(name string) (CredentialSet, error) {
	creds, ok := s.profiles[name]
	if !ok {
		return CredentialSet{}, ErrProfileNotFound
	}
	return creds, nil
}

func TestResolveOpenSkipsProbing(t *testing.T) {
	t.Parallel()

	env := &recordingProvider{}
	loc := descriptor.CloudLocation{Provider: descriptor.ProviderAWS, Identifier: "b", Key: "k", Access: descriptor.AccessOpen}

	creds, err := Resolve(t.Context(), loc, Options{Env: env, Profile: "ignored-for-open"})
	require.NoError(t, err)
	require.Equal(t, OriginNone, creds.Origin)
	require.True(t, creds.IsAnonymous())
	require.Zero(t, env.lookups)
}

func TestResolveChain(t *testing.T) {
	restricted := descriptor.CloudLocation{Provider: descriptor.ProviderAWS, Identifier: "b", Key: "k", Access: descriptor.AccessRestricted}

	tests := []struct {
		name        string
		opts        Options
		wantOrigin  Origin
		wantReason  Reason
		wantSteps   []string
		expectedErr string
	}{
		{
			name: "explicit credentials short-circuit",
			opts: Options{
				Explicit: &CredentialSet{Material: map[string]string{"access_key_id": "AKIA", "secret_access_key": "s3cr3t"}},
				Env:      &recordingProvider{},
			},
			wantOrigin: OriginExplicit,
		},
		{
			name: "named profile resolves",
			opts: Options{
				Profile: "heasarc",
				Store: fakeStore{profiles: map[string]CredentialSet{
					"heasarc": {Origin: OriginProfile, Material: map[string]string{"access_key_id": "AKIA", "secret_access_key": "s3cr3t"}},
				}},
			},
			wantOrigin: OriginProfile,
		},
		{
			name:        "missing profile fails fast",
			opts:        Options{Profile: "nope", Store: fakeStore{}, Env: &recordingProvider{found: true}},
			wantReason:  ReasonProfileNotFound,
			wantSteps:   []string{StepProfile},
			expectedErr: `profile-not-found: profile "nope" (tried profile): profile not found`,
		},
		{
			name:        "named profile without store",
			opts:        Options{Profile: "nope"},
			wantReason:  ReasonProfileNotFound,
			wantSteps:   []string{StepProfile},
			expectedErr: `profile-not-found: profile "nope" (tried profile): no credential store configured`,
		},
		{
			name:       "environment credentials",
			opts:       Options{Env: &recordingProvider{found: true, creds: CredentialSet{Origin: OriginEnvironment}}},
			wantOrigin: OriginEnvironment,
		},
		{
			name:        "nothing resolves",
			opts:        Options{Env: &recordingProvider{}},
			wantReason:  ReasonNoCredentials,
			wantSteps:   []string{StepAnonymous, StepEnvironment},
			expectedErr: "no-credentials-available (tried anonymous, environment)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			creds, err := Resolve(t.Context(), restricted, tt.opts)
			if tt.expectedErr != "" {
				require.EqualError(t, err, tt.expectedErr)

				var cErr *CredentialError
				require.ErrorAs(t, err, &cErr)
				require.Equal(t, tt.wantReason, cErr.Reason)
				require.Equal(t, tt.wantSteps, cErr.Steps)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantOrigin, creds.Origin)
		})
	}

	t.Run("missing profile never falls through to environment", func(t *testing.T) {
		t.Parallel()
		env := &recordingProvider{found: true, creds: CredentialSet{Origin: OriginEnvironment}}
		_, err := Resolve(t.Context(), restricted, Options{Profile: "nope", Store: fakeStore{}, Env: env})
		require.Error(t, err)
		require.Zero(t, env.lookups)
	})

	t.Run("region policy still resolves credentials", func(t *testing.T) {
		t.Parallel()
		loc := descriptor.CloudLocation{Provider: descriptor.ProviderAWS, Identifier: "b", Key: "k", Access: descriptor.AccessRegion}
		creds, err := Resolve(t.Context(), loc, Options{Env: &recordingProvider{found: true, creds: CredentialSet{Origin: OriginEnvironment}}})
		require.NoError(t, err)
		require.Equal(t, OriginEnvironment, creds.Origin)
	})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	for _, policy := range []descriptor.AccessPolicy{descriptor.AccessOpen, descriptor.AccessRestricted, descriptor.AccessRegion} {
		loc := descriptor.CloudLocation{Provider: descriptor.ProviderAWS, Identifier: "b", Key: "k", Access: policy}
		require.Equal(t, policy, Classify(loc))
	}
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	require.Equal(t, "none", Anonymous().Redacted())

	creds := CredentialSet{Origin: OriginEnvironment, Material: map[string]string{
		"secret_access_key": "s3cr3t",
		"access_key_id":     "AKIA",
	}}
	require.Equal(t, "environment[access_key_id,secret_access_key]", creds.Redacted())
	require.NotContains(t, creds.Redacted(), "s3cr3t")
}
