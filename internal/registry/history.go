package registry

import (
	"fmt"
	"sort"
	"sync"

	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/storage"
)

// Ledger is the append-only daily history keyed by YYYY-MM-DD.
type Ledger struct {
	mu    sync.Mutex
	store storage.Store
	days  map[string][]models.HistoryEntry
}

func NewLedger(store storage.Store) (*Ledger, error) {
	l := &Ledger{store: store, days: map[string][]models.HistoryEntry{}}
	if _, err := store.Load(storage.DocHistory, &l.days); err != nil {
		return nil, fmt.Errorf("history: load: %w", err)
	}
	if l.days == nil {
		l.days = map[string][]models.HistoryEntry{}
	}
	return l, nil
}

// Append adds entries to the date bucket. Existing entries are never touched.
func (l *Ledger) Append(date string, entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		e.OrderSnapshot = e.OrderSnapshot.Clone()
		l.days[date] = append(l.days[date], e)
	}
	if err := l.store.Save(storage.DocHistory, l.days); err != nil {
		return fmt.Errorf("history %w: %v", ErrPersist, err)
	}
	return nil
}

func (l *Ledger) Entries(date string) []models.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneEntries(l.days[date])
}

// RecentDates returns up to n dates, newest first.
func (l *Ledger) RecentDates(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	dates := make([]string, 0, len(l.days))
	for d := range l.days {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if n > 0 && len(dates) > n {
		dates = dates[:n]
	}
	return dates
}

// Snapshot deep-copies the whole ledger.
func (l *Ledger) Snapshot() map[string][]models.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string][]models.HistoryEntry, len(l.days))
	for d, es := range l.days {
		out[d] = cloneEntries(es)
	}
	return out
}

func cloneEntries(es []models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(es))
	for i, e := range es {
		e.OrderSnapshot = e.OrderSnapshot.Clone()
		out[i] = e
	}
	return out
}
