package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripProviderSuffix(t *testing.T) {
	assert.Equal(t, "my-auth", StripProviderSuffix("my-auth@file"))
	assert.Equal(t, "api", StripProviderSuffix("api@docker"))
	assert.Equal(t, "plain", StripProviderSuffix("plain"))
	assert.Equal(t, "@file", StripProviderSuffix("@file"))
	assert.Equal(t, "", StripProviderSuffix(""))
}

func TestProviderSuffix(t *testing.T) {
	assert.Equal(t, "@file", ProviderSuffix("my-auth@file"))
	assert.Equal(t, "", ProviderSuffix("plain"))
	assert.Equal(t, "", ProviderSuffix("@file"))
}

func TestAddProviderSuffix(t *testing.T) {
	assert.Equal(t, "my-auth@file", AddProviderSuffix("my-auth", "file"))
	assert.Equal(t, "my-auth@file", AddProviderSuffix("my-auth", "@file"))
	assert.Equal(t, "my-auth@docker", AddProviderSuffix("my-auth@docker", "file"))
	assert.Equal(t, "my-auth", AddProviderSuffix("my-auth", ""))
}
