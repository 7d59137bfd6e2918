package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("ALARMCTL_TEST_ENV", "custom-value")
	assert.Equal(t, "custom-value", GetEnvString("ALARMCTL_TEST_ENV", "default"))
	assert.Equal(t, "fallback", GetEnvString("ALARMCTL_UNKNOWN_ENV", "fallback"))
}

func TestGetEnvBool(t *testing.T) {
	for _, val := range []string{"true", "TRUE", "1", "yes", "Yes"} {
		t.Run(val, func(t *testing.T) {
			t.Setenv("ALARMCTL_TEST_BOOL", val)
			assert.True(t, GetEnvBool("ALARMCTL_TEST_BOOL", false))
		})
	}
	for _, val := range []string{"false", "FALSE", "0", "no"} {
		t.Run(val, func(t *testing.T) {
			t.Setenv("ALARMCTL_TEST_BOOL", val)
			assert.False(t, GetEnvBool("ALARMCTL_TEST_BOOL", true))
		})
	}
	t.Setenv("ALARMCTL_TEST_BOOL", "sometimes")
	assert.True(t, GetEnvBool("ALARMCTL_TEST_BOOL", true), "invalid values keep the default")
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("ALARMCTL_CONFIG", "/etc/alarmctl/config.yaml")
	assert.Equal(t, "/etc/alarmctl/config.yaml", DefaultConfigPath())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("EM_IMAP_HOST=dotenv.example.net\nEM_IMAP_USERNAME=dotenv@example.net\n"), 0o600))

	// t.Setenv registers cleanup so the variables loaded from the file do not leak
	t.Setenv("EM_IMAP_HOST", "")
	require.NoError(t, os.Unsetenv("EM_IMAP_HOST"))
	t.Setenv("EM_IMAP_USERNAME", "preset@example.net")

	loaded, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "dotenv.example.net", os.Getenv("EM_IMAP_HOST"))
	assert.Equal(t, "preset@example.net", os.Getenv("EM_IMAP_USERNAME"), "existing variables win")
}

func TestLoadEnvFileMissing(t *testing.T) {
	loaded, err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.False(t, loaded)

	loaded, err = LoadEnvFile("")
	require.NoError(t, err)
	assert.False(t, loaded)
}
