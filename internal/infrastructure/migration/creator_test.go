package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add provider webhooks", "add_provider_webhooks"},
		{"Add-Provider-Webhooks", "add_provider_webhooks"},
		{"ADD_PROVIDER_WEBHOOKS", "add_provider_webhooks"},
		{"add__provider__webhooks", "add_provider_webhooks"},
		{"Add Webhooks 123", "add_webhooks_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "add provider webhooks", "Webhook inbox for payment providers")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Version is a YYYYMMDDHHMMSS timestamp
	assert.Len(t, mf.Version, 14)

	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add provider webhooks")
	assert.Contains(t, string(upContent), "Webhook inbox for payment providers")
	assert.Contains(t, string(upContent), "Write your UP migration SQL here")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Write your DOWN migration SQL here")
}

func TestListMigrations(t *testing.T) {
	tmpDir := t.TempDir()

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, migrations)

	for _, name := range []string{
		"000001_init_schema.up.sql",
		"000001_init_schema.down.sql",
		"000002_payment_provider.up.sql",
		"000002_payment_provider.down.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("-- sql\n"), 0o644))
	}

	migrations, err = ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init_schema", "000002_payment_provider"}, migrations)
}

func TestListMigrationsMissingDir(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
