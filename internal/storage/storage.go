package storage

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Document names.
const (
	DocClients   = "clients"
	DocHistory   = "history"
	DocScheduler = "scheduler_state"
)

// Store persists named JSON documents. Save must be atomic from the
// caller's point of view: a reader sees either the old or the new document.
type Store interface {
	// Load decodes the document into v; found=false when it does not exist yet.
	Load(name string, v any) (found bool, err error)
	Save(name string, v any) error
	Close() error
}

// Open picks the backend by driver name ("json" or "sqlite").
func Open(driver, dataDir string) (Store, error) {
	switch driver {
	case "", "json":
		return NewJSONStore(dataDir)
	case "sqlite":
		return New(filepath.Join(dataDir, "bot.db"))
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}

var errEmptyName = errors.New("storage: empty document name")
