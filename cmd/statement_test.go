package cmd

import (
	"testing"
	"time"
)

func TestPresetPeriod(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)

	tests := []struct {
		name      string
		choice    string
		now       time.Time
		wantFirst string
		wantLast  string
	}{
		{"this month", periodThisMonth, time.Date(2025, 3, 15, 10, 0, 0, 0, loc), "2025-03-01", "2025-03-31"},
		{"last month", periodLastMonth, time.Date(2025, 3, 15, 10, 0, 0, 0, loc), "2025-02-01", "2025-02-28"},
		{"leap february", periodThisMonth, time.Date(2024, 2, 29, 23, 0, 0, 0, loc), "2024-02-01", "2024-02-29"},
		{"across new year", periodLastMonth, time.Date(2025, 1, 1, 0, 0, 0, 0, loc), "2024-12-01", "2024-12-31"},
		{"end of month", periodLastMonth, time.Date(2025, 5, 31, 12, 0, 0, 0, loc), "2025-04-01", "2025-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := presetPeriod(tt.choice, tt.now)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("presetPeriod() = %s..%s, want %s..%s", first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}
