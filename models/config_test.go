package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
debug: true
api:
  url: http://localhost:5000
  defaultPageSize: 50
elasticsearch:
  url: http://localhost:9200
  username: elastic
`

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0600))

	var cfg Config
	cfg.Api.Port = "5000"
	cfg.Elasticsearch.MaxRecords = 10000

	require.NoError(t, LoadConfigFile(path, &cfg))
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://localhost:5000", cfg.Api.Url)
	assert.Equal(t, 50, cfg.Api.DefaultPageSize)
	assert.Equal(t, "elastic", cfg.Elasticsearch.Username)

	// untouched by the file
	assert.Equal(t, "5000", cfg.Api.Port)
	assert.Equal(t, 10000, cfg.Elasticsearch.MaxRecords)

	t.Run("should accept an empty file", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.yml")
		require.NoError(t, os.WriteFile(empty, nil, 0600))
		assert.NoError(t, LoadConfigFile(empty, &cfg))
	})

	t.Run("should fail on missing or malformed files", func(t *testing.T) {
		assert.Error(t, LoadConfigFile(filepath.Join(t.TempDir(), "missing.yml"), &cfg))

		malformed := filepath.Join(t.TempDir(), "malformed.yml")
		require.NoError(t, os.WriteFile(malformed, []byte("api: [1, 2"), 0600))
		assert.Error(t, LoadConfigFile(malformed, &cfg))
	})
}
