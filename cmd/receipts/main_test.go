package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigReadsPrefixedEnvVars(t *testing.T) {
	t.Setenv("RECEIPTS_AI_API_KEY", "env-key")
	t.Setenv("RECEIPTS_DATABASE_PATH", "/tmp/receipts-test.db")
	t.Setenv("RECEIPTS_SERVER_ADDR", ":9999")
	t.Cleanup(viper.Reset)

	require.NoError(t, initConfig(nil, nil))

	// Dotted config keys map to underscore-delimited RECEIPTS_ variables.
	assert.Equal(t, "env-key", viper.GetString("ai.api_key"))
	assert.Equal(t, "/tmp/receipts-test.db", viper.GetString("database.path"))
	assert.Equal(t, ":9999", viper.GetString("server.addr"))
}

func TestCreateAIClientUsesEnvAPIKey(t *testing.T) {
	t.Setenv("RECEIPTS_AI_API_KEY", "env-key")
	t.Setenv("OPENAI_API_KEY", "")
	t.Cleanup(viper.Reset)

	require.NoError(t, initConfig(nil, nil))

	client, err := createAIClient()
	require.NoError(t, err)
	assert.NotNil(t, client)
}
