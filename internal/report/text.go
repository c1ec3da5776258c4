package report

import (
	"fmt"
	"strings"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/models"
)

const NothingToReport = "Нет заказов."

// RenderText builds the compact per-client digest. No totals row.
func RenderText(t *SummaryTable) string {
	if t == nil {
		return NothingToReport
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Сводка заказов на %s\n", t.Date)
	for _, r := range t.Rows {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s — %d шт.\n", r.LocationName, r.Total)
		pairs := make([]string, 0, len(t.Items))
		for col, item := range t.Items {
			if q := r.Quantities[col]; q > 0 {
				pairs = append(pairs, fmt.Sprintf("%s:%d", item, q))
			}
		}
		b.WriteString(strings.Join(pairs, ", "))
		b.WriteString("\n")
		fmt.Fprintf(&b, "📍 %s\n", r.Address)
	}
	return b.String()
}

// DailyAggregate is the raw per-date count shown in the history view.
type DailyAggregate struct {
	Date    string
	Clients int
	Items   int
	Weight  int // граммы
}

func AggregateDay(date string, entries []models.HistoryEntry, cat *catalog.Catalog) DailyAggregate {
	agg := DailyAggregate{Date: date}
	seen := map[string]bool{}
	for _, e := range entries {
		if !seen[e.ClientID] {
			seen[e.ClientID] = true
			agg.Clients++
		}
		for item, q := range e.OrderSnapshot {
			agg.Items += q
			agg.Weight += q * cat.Weight(item)
		}
	}
	return agg
}

// RenderHistory lists aggregates newest first, as given.
func RenderHistory(aggs []DailyAggregate) string {
	if len(aggs) == 0 {
		return "История пуста."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📚 История заказов (последние %d дн.):\n", len(aggs))
	for _, a := range aggs {
		fmt.Fprintf(&b, "%s — точек: %d, всего: %d шт., вес: %d гр.\n", a.Date, a.Clients, a.Items, a.Weight)
	}
	return b.String()
}

// RenderClients lists registered clients sorted by location name.
func RenderClients(clients []models.ClientProfile) string {
	var reg []models.ClientProfile
	for _, c := range clients {
		if c.Registered {
			reg = append(reg, c)
		}
	}
	if len(reg) == 0 {
		return "Нет зарегистрированных точек."
	}
	sortByLocation(reg)
	var b strings.Builder
	fmt.Fprintf(&b, "👥 Зарегистрированные точки (%d):\n", len(reg))
	for i, c := range reg {
		fmt.Fprintf(&b, "%d. %s — %s (id %s, с %s)\n", i+1, c.LocationName, c.Address, c.ClientID, c.RegistrationTimestamp)
	}
	return b.String()
}
