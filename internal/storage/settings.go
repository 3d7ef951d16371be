// Package storage persists application settings locally. The AI API key is
// encrypted at rest with a key derived from a user-supplied passphrase.
package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stylemate/stylemate/internal/item"
)

// SettingsStore persists the AI service configuration.
type SettingsStore struct {
	db            *sql.DB
	encryptionKey []byte
	mu            sync.RWMutex
}

// NewSettingsStore opens the settings database at dbPath. encryptionKey must
// be a 32-byte key, typically from DeriveKey.
func NewSettingsStore(dbPath string, encryptionKey []byte) (*SettingsStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SettingsStore{db: db, encryptionKey: encryptionKey}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SettingsStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS ai_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		encrypted_api_key TEXT NOT NULL,
		use_gemini INTEGER NOT NULL DEFAULT 0,
		enabled INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create ai_config table: %w", err)
	}
	return nil
}

// SaveAIConfig stores the config, replacing any previous one.
func (s *SettingsStore) SaveAIConfig(cfg item.AIConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encrypted, err := Encrypt([]byte(cfg.APIKey), s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO ai_config (id, encrypted_api_key, use_gemini, enabled, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			encrypted_api_key = excluded.encrypted_api_key,
			use_gemini = excluded.use_gemini,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`,
		encrypted, cfg.Gemini, cfg.Enabled, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save AI config: %w", err)
	}
	return nil
}

// LoadAIConfig returns the stored config, or the zero config when none has
// been saved yet.
func (s *SettingsStore) LoadAIConfig() (item.AIConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var encrypted string
	var cfg item.AIConfig
	err := s.db.QueryRow("SELECT encrypted_api_key, use_gemini, enabled FROM ai_config WHERE id = 1").
		Scan(&encrypted, &cfg.Gemini, &cfg.Enabled)
	if err == sql.ErrNoRows {
		return item.AIConfig{}, nil
	}
	if err != nil {
		return item.AIConfig{}, fmt.Errorf("failed to load AI config: %w", err)
	}

	key, err := Decrypt(encrypted, s.encryptionKey)
	if err != nil {
		return item.AIConfig{}, fmt.Errorf("failed to decrypt API key: %w", err)
	}
	cfg.APIKey = string(key)
	return cfg, nil
}

// Close closes the underlying database.
func (s *SettingsStore) Close() error {
	return s.db.Close()
}
