// Package report aggregates open orders into the daily summary table and
// renders it as a spreadsheet or a compact text digest.
package report

import (
	"sort"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/models"
)

// SummaryRow is one client line of the table. Quantities follows Items order.
type SummaryRow struct {
	Index        int
	ClientID     string
	LocationName string
	Address      string
	Quantities   []int
	Total        int
	Order        models.Order
}

// SummaryTable is the aggregated export for one point in time.
type SummaryTable struct {
	Date         string
	Items        []string
	Rows         []SummaryRow
	ColumnTotals []int
	GrandTotal   int
}

// BuildSummary collects registered clients with a non-empty order, sorted
// by location name. It returns nil when there is nothing to report.
func BuildSummary(clients []models.ClientProfile, cat *catalog.Catalog, date string) *SummaryTable {
	var picked []models.ClientProfile
	for _, c := range clients {
		if !c.Registered {
			continue
		}
		if orderTotal(c.OpenOrder, cat) == 0 {
			continue
		}
		picked = append(picked, c)
	}
	if len(picked) == 0 {
		return nil
	}

	sortByLocation(picked)

	items := cat.Names()
	t := &SummaryTable{
		Date:         date,
		Items:        items,
		Rows:         make([]SummaryRow, 0, len(picked)),
		ColumnTotals: make([]int, len(items)),
	}
	for i, c := range picked {
		row := SummaryRow{
			Index:        i + 1,
			ClientID:     c.ClientID,
			LocationName: c.LocationName,
			Address:      c.Address,
			Quantities:   make([]int, len(items)),
			Order:        models.Order{},
		}
		for col, item := range items {
			q := c.OpenOrder.Get(item)
			if q <= 0 {
				continue
			}
			row.Quantities[col] = q
			row.Total += q
			row.Order[item] = q
			t.ColumnTotals[col] += q
		}
		t.GrandTotal += row.Total
		t.Rows = append(t.Rows, row)
	}
	return t
}

func sortByLocation(cs []models.ClientProfile) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].LocationName != cs[j].LocationName {
			return cs[i].LocationName < cs[j].LocationName
		}
		return cs[i].ClientID < cs[j].ClientID
	})
}

// orderTotal counts only catalog items so a stale line for a removed item
// never produces an all-zero row.
func orderTotal(o models.Order, cat *catalog.Catalog) int {
	n := 0
	for item, q := range o {
		if q > 0 && cat.Has(item) {
			n += q
		}
	}
	return n
}

// HistoryEntries converts the table rows into ledger entries.
func (t *SummaryTable) HistoryEntries(timeOfDay string) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, models.HistoryEntry{
			ClientID:      r.ClientID,
			LocationName:  r.LocationName,
			Address:       r.Address,
			OrderSnapshot: r.Order.Clone(),
			TotalItems:    r.Total,
			TimeOfDay:     timeOfDay,
		})
	}
	return out
}
