package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/storage"
)

type failingStore struct{ storage.Store }

func (failingStore) Save(string, any) error { return errors.New("disk full") }

func newTestRegistry(t *testing.T, store storage.Store) *Registry {
	t.Helper()
	msk := time.FixedZone("UTC+03:00", 3*3600)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 5, 8, 7, 30, 0, 0, time.UTC))
	r, err := New(store, catalog.Default(), WithClock(clock), WithLocation(msk))
	require.NoError(t, err)
	return r
}

func newStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func register(t *testing.T, r *Registry, id, name, address string) {
	t.Helper()
	_, _, err := r.GetOrCreate(id, "")
	require.NoError(t, err)
	require.NoError(t, r.SetLocationName(id, name))
	_, err = r.CompleteRegistration(id, address)
	require.NoError(t, err)
}

func TestGetOrCreate_PersistsNewProfile(t *testing.T) {
	store := newStore(t)
	r := newTestRegistry(t, store)

	p, created, err := r.GetOrCreate("42", "cafe")
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, p.Registered)
	assert.NotNil(t, p.OpenOrder)

	_, created, err = r.GetOrCreate("42", "cafe")
	require.NoError(t, err)
	assert.False(t, created)

	reloaded := newTestRegistry(t, store)
	got, ok := reloaded.Get("42")
	require.True(t, ok)
	assert.Equal(t, "cafe", got.Username)
}

func TestCompleteRegistration_StampsLocalTime(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	register(t, r, "1", "Кафе Уют", "ул.Ленина 1")

	p, ok := r.Get("1")
	require.True(t, ok)
	assert.True(t, p.Registered)
	assert.Equal(t, "Кафе Уют", p.LocationName)
	assert.Equal(t, "ул.Ленина 1", p.Address)
	assert.Equal(t, "2025-05-08 10:30:00", p.RegistrationTimestamp)
}

func TestSetItemQuantity_OverwriteNotAccumulate(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	register(t, r, "1", "Кафе Уют", "ул.Ленина 1")

	require.NoError(t, r.SetItemQuantity("1", "Яблоко", 3))
	require.NoError(t, r.SetItemQuantity("1", "Яблоко", 5))

	p, _ := r.Get("1")
	assert.Equal(t, models.Order{"Яблоко": 5}, p.OpenOrder)
}

func TestSetItemQuantity_ZeroRemovesKey(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	register(t, r, "1", "Кафе Уют", "ул.Ленина 1")

	for _, q := range []int{3, 0, 7, 0, 0} {
		require.NoError(t, r.SetItemQuantity("1", "Мак", q))
	}
	p, _ := r.Get("1")
	_, present := p.OpenOrder["Мак"]
	assert.False(t, present)
}

func TestSetItemQuantity_Validation(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	register(t, r, "1", "Кафе", "адрес")
	_, _, err := r.GetOrCreate("2", "")
	require.NoError(t, err)

	assert.ErrorIs(t, r.SetItemQuantity("1", "Мак", -1), ErrInvalidQuantity)
	assert.ErrorIs(t, r.SetItemQuantity("1", "Пицца", 1), ErrUnknownItem)
	assert.ErrorIs(t, r.SetItemQuantity("404", "Мак", 1), ErrClientNotFound)
	assert.ErrorIs(t, r.SetItemQuantity("2", "Мак", 1), ErrNotRegistered)
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]struct {
		want int
		ok   bool
	}{
		"5":    {5, true},
		" 12 ": {12, true},
		"0":    {0, true},
		"-3":   {0, false},
		"пять": {0, false},
		"":     {0, false},
		"2.5":  {0, false},
	}
	for in, tc := range cases {
		got, err := ParseQuantity(in)
		if tc.ok {
			require.NoError(t, err, in)
			assert.Equal(t, tc.want, got, in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidQuantity, in)
		}
	}
}

func TestClearAllOrders_CountsAffected(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	register(t, r, "1", "А", "a")
	register(t, r, "2", "Б", "b")
	register(t, r, "3", "В", "c")
	require.NoError(t, r.SetItemQuantity("1", "Мак", 1))
	require.NoError(t, r.SetItemQuantity("3", "Вишня", 2))

	n, err := r.ClearAllOrders()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, p := range r.List() {
		assert.True(t, p.OpenOrder.IsEmpty(), p.ClientID)
		assert.True(t, p.Registered, "reset must keep profiles")
	}

	n, err = r.ClearAllOrders()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearOrderAndDelete(t *testing.T) {
	store := newStore(t)
	r := newTestRegistry(t, store)
	register(t, r, "1", "А", "a")
	require.NoError(t, r.SetItemQuantity("1", "Мак", 1))

	require.NoError(t, r.ClearOrder("1"))
	p, _ := r.Get("1")
	assert.True(t, p.OpenOrder.IsEmpty())

	require.NoError(t, r.DeleteClient("1"))
	assert.ErrorIs(t, r.DeleteClient("1"), ErrClientNotFound)

	reloaded := newTestRegistry(t, store)
	_, ok := reloaded.Get("1")
	assert.False(t, ok)
}

func TestPersistFailure_KeepsInMemoryChange(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	register(t, r, "1", "А", "a")

	r.store = failingStore{r.store}
	err := r.SetItemQuantity("1", "Мак", 4)
	assert.ErrorIs(t, err, ErrPersist)

	p, _ := r.Get("1")
	assert.Equal(t, 4, p.OpenOrder.Get("Мак"))
}

func TestGetReturnsCopy(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	register(t, r, "1", "А", "a")
	require.NoError(t, r.SetItemQuantity("1", "Мак", 1))

	p, _ := r.Get("1")
	p.OpenOrder.Set("Мак", 100)

	again, _ := r.Get("1")
	assert.Equal(t, 1, again.OpenOrder.Get("Мак"))
}

func TestConcurrentQuantityUpdates(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	for i := 0; i < 5; i++ {
		register(t, r, fmt.Sprint(i), fmt.Sprint("Точка ", i), "addr")
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for q := 1; q <= 20; q++ {
				assert.NoError(t, r.SetItemQuantity(id, "Мак", q))
			}
		}(fmt.Sprint(i))
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.ClearAllOrders()
	}()
	wg.Wait()

	for _, p := range r.List() {
		q := p.OpenOrder.Get("Мак")
		assert.True(t, q >= 0 && q <= 20)
	}
}

func TestStats(t *testing.T) {
	r := newTestRegistry(t, newStore(t))
	register(t, r, "1", "А", "a")
	register(t, r, "2", "Б", "b")
	_, _, err := r.GetOrCreate("3", "")
	require.NoError(t, err)
	require.NoError(t, r.SetItemQuantity("2", "Мак", 1))

	reg, with := r.Stats()
	assert.Equal(t, 2, reg)
	assert.Equal(t, 1, with)
}
