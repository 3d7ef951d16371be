package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylemate/stylemate/internal/item"
)

func newTestSettings(t *testing.T) *SettingsStore {
	t.Helper()
	key, err := DeriveKey("correct horse battery staple")
	require.NoError(t, err)
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "settings.db"), key)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadAIConfig(t *testing.T) {
	store := newTestSettings(t)

	saved := item.AIConfig{APIKey: "sk-test-12345", Gemini: true, Enabled: true}
	require.NoError(t, store.SaveAIConfig(saved))

	loaded, err := store.LoadAIConfig()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSaveAIConfigReplacesPrevious(t *testing.T) {
	store := newTestSettings(t)

	require.NoError(t, store.SaveAIConfig(item.AIConfig{APIKey: "old-key", Enabled: true}))
	require.NoError(t, store.SaveAIConfig(item.AIConfig{APIKey: "new-key"}))

	loaded, err := store.LoadAIConfig()
	require.NoError(t, err)
	assert.Equal(t, "new-key", loaded.APIKey)
	assert.False(t, loaded.Enabled)
}

func TestLoadAIConfigEmpty(t *testing.T) {
	store := newTestSettings(t)

	loaded, err := store.LoadAIConfig()
	require.NoError(t, err)
	assert.Equal(t, item.AIConfig{}, loaded)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := DeriveKey("passphrase")
	require.NoError(t, err)
	require.Len(t, key, 32)

	encrypted, err := Encrypt([]byte("secret value"), key)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "secret value")

	decrypted, err := Decrypt(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, "secret value", string(decrypted))
}

func TestDecryptWrongKey(t *testing.T) {
	key, err := DeriveKey("passphrase")
	require.NoError(t, err)
	other, err := DeriveKey("different passphrase")
	require.NoError(t, err)

	encrypted, err := Encrypt([]byte("secret value"), key)
	require.NoError(t, err)

	_, err = Decrypt(encrypted, other)
	assert.Error(t, err)
}
