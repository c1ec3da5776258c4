package models

// Order is a sparse item -> quantity map. A missing key means zero;
// zero or negative quantities are never stored.
type Order map[string]int

// Set upserts a line; qty <= 0 removes it.
func (o Order) Set(item string, qty int) {
	if qty <= 0 {
		delete(o, item)
		return
	}
	o[item] = qty
}

func (o Order) Get(item string) int { return o[item] }

func (o Order) Total() int {
	total := 0
	for _, q := range o {
		total += q
	}
	return total
}

func (o Order) IsEmpty() bool { return len(o) == 0 }

// Clone returns an independent copy, never nil.
func (o Order) Clone() Order {
	c := make(Order, len(o))
	for k, v := range o {
		if v > 0 {
			c[k] = v
		}
	}
	return c
}

// ClientProfile represents a registered ordering point and its open order.
type ClientProfile struct {
	ClientID              string `json:"client_id"`
	Username              string `json:"username,omitempty"`
	LocationName          string `json:"location_name"`
	Address               string `json:"address"`
	Registered            bool   `json:"registered"`
	RegistrationTimestamp string `json:"registration_timestamp,omitempty"` // "2006-01-02 15:04:05", admin TZ
	OpenOrder             Order  `json:"open_order"`
}

// Clone deep-copies the profile so callers never share the open order map.
func (p ClientProfile) Clone() ClientProfile {
	p.OpenOrder = p.OpenOrder.Clone()
	return p
}

// HistoryEntry is an immutable snapshot of one client's order taken at summary time.
type HistoryEntry struct {
	ClientID      string `json:"client_id"`
	LocationName  string `json:"location_name"`
	Address       string `json:"address"`
	OrderSnapshot Order  `json:"order_snapshot"`
	TotalItems    int    `json:"total_items"`
	TimeOfDay     string `json:"time_of_day"` // HH:MM in the admin timezone
}

// SchedulerState stores the calendar dates (YYYY-MM-DD) on which the daily
// actions last fired.
type SchedulerState struct {
	LastSummaryDate string `json:"last_summary_date"`
	LastResetDate   string `json:"last_reset_date"`
	SummaryRuns     int    `json:"summary_runs,omitempty"`
	ResetRuns       int    `json:"reset_runs,omitempty"`
	Failures        int    `json:"failures,omitempty"`
}
