package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabonline/boot/errors"
)

func names(providers []Provider) []string {
	out := make([]string, len(providers))
	for i, p := range providers {
		out[i] = p.Name()
	}
	return out
}

func TestSortProvidersRespectsDependencies(t *testing.T) {
	providers := []Provider{
		newTestProvider("auth", []string{"database"}),
		newTestProvider("database", []string{"config"}),
		newTestProvider("config", nil),
	}

	sorted, err := sortProviders(providers)
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "database", "auth"}, names(sorted))
}

func TestSortProvidersKeepsRegistrationOrderForIndependents(t *testing.T) {
	providers := []Provider{
		newTestProvider("b", nil),
		newTestProvider("a", nil),
		newTestProvider("c", nil),
	}

	sorted, err := sortProviders(providers)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, names(sorted))
}

func TestSortProvidersDuplicateName(t *testing.T) {
	providers := []Provider{
		newTestProvider("config", nil),
		newTestProvider("config", nil),
	}

	_, err := sortProviders(providers)
	require.Error(t, err)
	assert.Equal(t, int32(409), errors.FromError(err).GetCode())
}

func TestSortProvidersUnknownDependency(t *testing.T) {
	providers := []Provider{
		newTestProvider("api", []string{"ghost"}),
	}

	_, err := sortProviders(providers)
	require.Error(t, err)

	ge := errors.FromError(err)
	assert.Equal(t, int32(424), ge.GetCode())
	assert.Equal(t, "ghost", ge.GetMetadata()["dependency"])
}

func TestSortProvidersCycleNamesTheCyclicSubset(t *testing.T) {
	providers := []Provider{
		newTestProvider("standalone", nil),
		newTestProvider("a", []string{"b"}),
		newTestProvider("b", []string{"a"}),
	}

	_, err := sortProviders(providers)
	require.Error(t, err)

	ge := errors.FromError(err)
	assert.Equal(t, int32(508), ge.GetCode())
	assert.Equal(t, "a,b", ge.GetMetadata()["providers"])
}
