package cli

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/config"
	"telegram-order-bot/internal/registry"
	"telegram-order-bot/internal/storage"
)

// appState is the persisted core shared by every command.
type appState struct {
	store    storage.Store
	catalog  *catalog.Catalog
	registry *registry.Registry
	history  *registry.Ledger
}

func openState(base *config.Base, clock clockwork.Clock) (*appState, error) {
	store, err := storage.Open(base.StorageDriver, base.DataDir)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(base.CatalogFile)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("catalog: %w", err)
	}
	reg, err := registry.New(store, cat,
		registry.WithClock(clock),
		registry.WithLocation(base.Location()),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ledger, err := registry.NewLedger(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &appState{store: store, catalog: cat, registry: reg, history: ledger}, nil
}

func (s *appState) Close() error { return s.store.Close() }
