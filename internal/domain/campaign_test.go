package domain

import (
	"testing"
	"time"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%s): %v", name, err)
	}
	return loc
}

func TestCampaign_CurrentDay(t *testing.T) {
	moscow := mustLoadLocation(t, "Europe/Moscow")
	campaign := NewCampaign(time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), 21, moscow)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "day before start",
			now:  time.Date(2025, 12, 7, 23, 59, 0, 0, moscow),
			want: 0,
		},
		{
			name: "a week early",
			now:  time.Date(2025, 12, 1, 12, 0, 0, 0, moscow),
			want: 0,
		},
		{
			name: "start date morning",
			now:  time.Date(2025, 12, 8, 0, 1, 0, 0, moscow),
			want: 1,
		},
		{
			name: "start date evening",
			now:  time.Date(2025, 12, 8, 23, 0, 0, 0, moscow),
			want: 1,
		},
		{
			name: "fifth day",
			now:  time.Date(2025, 12, 12, 10, 0, 0, 0, moscow),
			want: 5,
		},
		{
			name: "last day",
			now:  time.Date(2025, 12, 28, 10, 0, 0, 0, moscow),
			want: 21,
		},
		{
			name: "clamped after the end",
			now:  time.Date(2026, 1, 10, 10, 0, 0, 0, moscow),
			want: 21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := campaign.CurrentDay(tt.now); got != tt.want {
				t.Errorf("CurrentDay(%v) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestCampaign_CurrentDay_IncreasesByOnePerDay(t *testing.T) {
	moscow := mustLoadLocation(t, "Europe/Moscow")
	campaign := NewCampaign(time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), 21, moscow)

	now := time.Date(2025, 12, 8, 10, 0, 0, 0, moscow)
	for day := 1; day <= 21; day++ {
		if got := campaign.CurrentDay(now); got != day {
			t.Fatalf("CurrentDay on %v = %d, want %d", now, got, day)
		}
		now = now.AddDate(0, 0, 1)
	}
}

func TestCampaign_CurrentDay_ZoneBoundary(t *testing.T) {
	// 21:05 UTC on Dec 7 is already Dec 8 in Moscow.
	moscow := mustLoadLocation(t, "Europe/Moscow")
	campaign := NewCampaign(time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), 21, moscow)

	now := time.Date(2025, 12, 7, 21, 5, 0, 0, time.UTC)
	if got := campaign.CurrentDay(now); got != 1 {
		t.Errorf("CurrentDay(%v) = %d, want 1", now, got)
	}
}

func TestCampaign_CurrentDay_WestOfUTC(t *testing.T) {
	// With the start date anchored at midnight in a zone west of UTC,
	// the evening before is still day 0.
	newYork := mustLoadLocation(t, "America/New_York")
	campaign := NewCampaign(time.Date(2025, 12, 8, 0, 0, 0, 0, newYork), 21, newYork)

	eveBefore := time.Date(2025, 12, 7, 20, 0, 0, 0, newYork)
	if got := campaign.CurrentDay(eveBefore); got != 0 {
		t.Errorf("CurrentDay(%v) = %d, want 0", eveBefore, got)
	}

	startMorning := time.Date(2025, 12, 8, 8, 0, 0, 0, newYork)
	if got := campaign.CurrentDay(startMorning); got != 1 {
		t.Errorf("CurrentDay(%v) = %d, want 1", startMorning, got)
	}
}

func TestCampaign_EndDate(t *testing.T) {
	moscow := mustLoadLocation(t, "Europe/Moscow")
	campaign := NewCampaign(time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), 21, moscow)

	want := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
	if got := campaign.EndDate(); !got.Equal(want) {
		t.Errorf("EndDate() = %v, want %v", got, want)
	}
}
