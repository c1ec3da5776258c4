package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-order-bot/internal/models"
)

func TestLedger_AppendAndReload(t *testing.T) {
	store := newStore(t)
	l, err := NewLedger(store)
	require.NoError(t, err)

	order := models.Order{"Мак": 2}
	require.NoError(t, l.Append("2025-05-08", []models.HistoryEntry{{
		ClientID: "1", LocationName: "А", Address: "a",
		OrderSnapshot: order, TotalItems: 2, TimeOfDay: "20:00:00",
	}}))
	// мутация исходного заказа не должна задеть историю
	order.Set("Мак", 9)

	require.NoError(t, l.Append("2025-05-08", []models.HistoryEntry{{ClientID: "2", OrderSnapshot: models.Order{"Вишня": 1}, TotalItems: 1}}))
	require.NoError(t, l.Append("2025-05-07", []models.HistoryEntry{{ClientID: "1", OrderSnapshot: models.Order{"Мак": 1}, TotalItems: 1}}))

	reloaded, err := NewLedger(store)
	require.NoError(t, err)
	es := reloaded.Entries("2025-05-08")
	require.Len(t, es, 2)
	assert.Equal(t, 2, es[0].OrderSnapshot.Get("Мак"))
	assert.Equal(t, "2", es[1].ClientID)
}

func TestLedger_AppendEmptyIsNoop(t *testing.T) {
	l, err := NewLedger(newStore(t))
	require.NoError(t, err)
	require.NoError(t, l.Append("2025-05-08", nil))
	assert.Empty(t, l.RecentDates(10))
}

func TestLedger_RecentDates(t *testing.T) {
	l, err := NewLedger(newStore(t))
	require.NoError(t, err)
	for _, d := range []string{"2025-05-01", "2025-05-03", "2025-05-02"} {
		require.NoError(t, l.Append(d, []models.HistoryEntry{{ClientID: "1"}}))
	}
	assert.Equal(t, []string{"2025-05-03", "2025-05-02"}, l.RecentDates(2))
	assert.Len(t, l.RecentDates(0), 3)
}

func TestLedger_SnapshotIsDeepCopy(t *testing.T) {
	l, err := NewLedger(newStore(t))
	require.NoError(t, err)
	require.NoError(t, l.Append("2025-05-01", []models.HistoryEntry{{ClientID: "1", OrderSnapshot: models.Order{"Мак": 1}}}))

	snap := l.Snapshot()
	snap["2025-05-01"][0].OrderSnapshot.Set("Мак", 50)

	assert.Equal(t, 1, l.Entries("2025-05-01")[0].OrderSnapshot.Get("Мак"))
}
