package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/stylemate/stylemate/internal/item"
	"github.com/stylemate/stylemate/internal/storage"
)

const (
	AppName     = "stylemate"
	EnvFileName = "config.env"
)

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// AIConfigFromEnv builds the AI config from environment variables. The
// OpenAI key is the default; GEMINI_API_KEY switches to the Gemini analyzer
// when no OpenAI key is present.
func AIConfigFromEnv() item.AIConfig {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return item.AIConfig{APIKey: key, Enabled: true}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return item.AIConfig{APIKey: key, Gemini: true, Enabled: true}
	}
	return item.AIConfig{}
}

// DBPath returns the SQLite database path, defaulting to stylemate.db.
func DBPath() string {
	if path := os.Getenv("STYLEMATE_DB_PATH"); path != "" {
		return path
	}
	return "stylemate.db"
}

// OpenSettingsStore opens the encrypted settings store in the user config
// directory, keyed by the STYLEMATE_SECRET_KEY passphrase. Returns nil when
// no passphrase is set.
func OpenSettingsStore() (*storage.SettingsStore, error) {
	passphrase := os.Getenv("STYLEMATE_SECRET_KEY")
	if passphrase == "" {
		return nil, nil
	}
	configBase, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(configBase, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	key, err := storage.DeriveKey(passphrase)
	if err != nil {
		return nil, err
	}
	return storage.NewSettingsStore(filepath.Join(dir, "settings.db"), key)
}

// ResolveAIConfig returns the AI config from the environment, falling back
// to the settings store when the environment has no key.
func ResolveAIConfig() (item.AIConfig, error) {
	if cfg := AIConfigFromEnv(); cfg.Active() {
		return cfg, nil
	}
	store, err := OpenSettingsStore()
	if err != nil || store == nil {
		return item.AIConfig{}, err
	}
	defer store.Close()
	return store.LoadAIConfig()
}
