package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.False(t, config.Has("anything"))
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"key1": "value1",
			"key2": "value2",
		}
		config := NewConfig(values)

		assert.Equal(t, "value1", config.Get("key1"))
		assert.Equal(t, "value2", config.Get("key2"))

		// Verify it's a copy, not a reference
		values["key1"] = "modified"
		assert.NotEqual(t, "modified", config.Get("key1"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	envContent := "TEST_BANKING_KEY=test_value\n"
	tmpFile, err := os.CreateTemp("", "test_env_*.env")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(envContent)
	require.NoError(t, err)
	tmpFile.Close()

	config := NewConfigFromEnv(tmpFile.Name())

	require.NotNil(t, config)
	assert.Equal(t, "test_value", config.Get("TEST_BANKING_KEY"))
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	t.Run("existing key", func(t *testing.T) {
		assert.Equal(t, "value", config.GetWithDefault("existing", "default"))
	})

	t.Run("non-existing key", func(t *testing.T) {
		assert.Equal(t, "default", config.GetWithDefault("missing", "default"))
	})

	t.Run("empty value key", func(t *testing.T) {
		assert.Equal(t, "default", config.GetWithDefault("empty", "default"))
	})
}

func TestConfigGetBool(t *testing.T) {
	config := NewConfig(map[string]string{
		"true_bool":  "true",
		"false_bool": "false",
		"true_on":    "on",
		"false_off":  "off",
		"invalid":    "invalid_bool",
		"empty":      "",
	})

	tests := []struct {
		key      string
		expected bool
	}{
		{"true_bool", true},
		{"false_bool", false},
		{"true_on", true},
		{"false_off", false},
		{"invalid", false},
		{"empty", false},
		{"missing", false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetBool(test.key))
		})
	}
}

func TestConfigGetInt(t *testing.T) {
	config := NewConfig(map[string]string{
		"port":    "8080",
		"invalid": "not_a_number",
	})

	assert.Equal(t, 8080, config.GetInt("port"))
	assert.Equal(t, 0, config.GetInt("invalid"))
	assert.Equal(t, 0, config.GetInt("missing"))
	assert.Equal(t, 3, config.GetIntWithDefault("missing", 3))
	assert.Equal(t, 8080, config.GetIntWithDefault("port", 3))
}

func TestConfigSet(t *testing.T) {
	config := NewConfig(nil)

	config.Set("key", "value")
	assert.Equal(t, "value", config.Get("key"))
	assert.True(t, config.Has("key"))
}
