package billing

import (
	"testing"

	"contas/internal/core"
)

func TestInvoiceMonth(t *testing.T) {
	tests := []struct {
		name       string
		purchase   core.Date
		closingDay int
		want       core.Date
	}{
		{
			name:       "day before closing stays in purchase month",
			purchase:   core.NewDate(2024, 3, 9),
			closingDay: 10,
			want:       core.NewDate(2024, 3, 1),
		},
		{
			name:       "closing day itself rolls over",
			purchase:   core.NewDate(2024, 3, 10),
			closingDay: 10,
			want:       core.NewDate(2024, 4, 1),
		},
		{
			name:       "day after closing rolls over",
			purchase:   core.NewDate(2024, 3, 11),
			closingDay: 10,
			want:       core.NewDate(2024, 4, 1),
		},
		{
			name:       "december rollover crosses the year",
			purchase:   core.NewDate(2024, 12, 28),
			closingDay: 25,
			want:       core.NewDate(2025, 1, 1),
		},
		{
			name:       "closing day beyond month length never rolls",
			purchase:   core.NewDate(2024, 2, 29),
			closingDay: 31,
			want:       core.NewDate(2024, 2, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InvoiceMonth(tt.purchase, tt.closingDay)
			if !got.Equal(tt.want.Time) {
				t.Errorf("InvoiceMonth(%s, %d) = %s, want %s", tt.purchase, tt.closingDay, got, tt.want)
			}
		})
	}
}

func TestDueDates(t *testing.T) {
	start := core.NewDate(2024, 2, 1)
	dates := DueDates(start, 5, 3)

	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	want := []core.Date{
		core.NewDate(2024, 2, 5),
		core.NewDate(2024, 3, 5),
		core.NewDate(2024, 4, 5),
	}
	for i, d := range dates {
		if !d.Equal(want[i].Time) {
			t.Errorf("date %d = %s, want %s", i, d, want[i])
		}
	}
}

func TestDueDatesStrictlyIncreasing(t *testing.T) {
	dates := DueDates(core.NewDate(2024, 11, 1), 15, 14)
	if len(dates) != 14 {
		t.Fatalf("expected 14 dates, got %d", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1].Time) {
			t.Errorf("date %d (%s) not after date %d (%s)", i, dates[i], i-1, dates[i-1])
		}
	}
}

// Due day 31 in a short month normalizes forward per time.Date: the
// February entry of a leap year lands on March 2nd. This is the
// documented behavior, not an accident.
func TestDueDatesDayOverflowNormalizes(t *testing.T) {
	dates := DueDates(core.NewDate(2024, 1, 1), 31, 3)

	want := []core.Date{
		core.NewDate(2024, 1, 31),
		core.NewDate(2024, 3, 2), // 2024-02-31 normalized
		core.NewDate(2024, 3, 31),
	}
	for i, d := range dates {
		if !d.Equal(want[i].Time) {
			t.Errorf("date %d = %s, want %s", i, d, want[i])
		}
	}
}
