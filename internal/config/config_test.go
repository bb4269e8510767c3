package config

import (
	"testing"
	"time"
)

func TestParseSendTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SendTime
		wantErr bool
	}{
		{
			name:  "morning send time",
			input: "10:00",
			want:  SendTime{Hour: 10, Minute: 0},
		},
		{
			name:  "midnight",
			input: "00:00",
			want:  SendTime{Hour: 0, Minute: 0},
		},
		{
			name:  "last minute of the day",
			input: "23:59",
			want:  SendTime{Hour: 23, Minute: 59},
		},
		{
			name:    "missing minutes",
			input:   "10",
			wantErr: true,
		},
		{
			name:    "hour out of range",
			input:   "24:00",
			wantErr: true,
		},
		{
			name:    "minute out of range",
			input:   "10:60",
			wantErr: true,
		},
		{
			name:    "not a number",
			input:   "ten:00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSendTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSendTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseSendTime(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TotalDays != 21 {
		t.Errorf("TotalDays = %d, want 21", cfg.TotalDays)
	}
	wantStart := time.Date(2025, 12, 8, 0, 0, 0, 0, cfg.Location)
	if !cfg.StartDate.Equal(wantStart) {
		t.Errorf("StartDate = %v, want %v", cfg.StartDate, wantStart)
	}
	if cfg.SendTime != (SendTime{Hour: 10, Minute: 0}) {
		t.Errorf("SendTime = %+v, want 10:00", cfg.SendTime)
	}
	if cfg.Location.String() != "Europe/Moscow" {
		t.Errorf("Location = %s, want Europe/Moscow", cfg.Location)
	}
	if cfg.UsersFile != "data/users.json" {
		t.Errorf("UsersFile = %s, want data/users.json", cfg.UsersFile)
	}
}

func TestLoad_StartDateAnchoredInTimezone(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("TIMEZONE", "America/New_York")
	t.Setenv("START_DATE", "2025-12-08")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Midnight in the configured zone, not UTC: the evening before the
	// start date must still be before the campaign.
	wantStart := time.Date(2025, 12, 8, 0, 0, 0, 0, cfg.Location)
	if !cfg.StartDate.Equal(wantStart) {
		t.Errorf("StartDate = %v, want %v", cfg.StartDate, wantStart)
	}
	eveBefore := time.Date(2025, 12, 7, 20, 0, 0, 0, cfg.Location)
	if !eveBefore.Before(cfg.StartDate) {
		t.Errorf("Dec 7 20:00 %s should be before the start date %v", cfg.Location, cfg.StartDate)
	}
}

func TestLoad_RequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() without BOT_TOKEN should fail")
	}
}

func TestLoad_RejectsBadTimezone(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with unknown TIMEZONE should fail")
	}
}
