package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTenantFromHost(t *testing.T) {
	t.Run("subdomain extracted", func(t *testing.T) {
		slug, err := ExtractTenantFromHost("colegio.escolarapp.com")
		require.NoError(t, err)
		assert.Equal(t, "colegio", slug)
	})

	t.Run("port is ignored", func(t *testing.T) {
		slug, err := ExtractTenantFromHost("colegio.escolarapp.com:8080")
		require.NoError(t, err)
		assert.Equal(t, "colegio", slug)
	})

	t.Run("bare domain has no tenant", func(t *testing.T) {
		_, err := ExtractTenantFromHost("escolarapp.com")
		assert.Error(t, err)
	})

	t.Run("localhost has no tenant", func(t *testing.T) {
		_, err := ExtractTenantFromHost("localhost:8080")
		assert.Error(t, err)
	})
}
