package domain

import "time"

// Campaign is the immutable advent calendar configuration: a fixed-length
// run of daily episodes starting on StartDate.
type Campaign struct {
	StartDate time.Time
	TotalDays int
	Location  *time.Location
}

// NewCampaign creates a campaign anchored to the given start date and zone
func NewCampaign(startDate time.Time, totalDays int, location *time.Location) *Campaign {
	return &Campaign{
		StartDate: startDate,
		TotalDays: totalDays,
		Location:  location,
	}
}

// EndDate returns the calendar date of the last campaign day
func (c *Campaign) EndDate() time.Time {
	return c.StartDate.AddDate(0, 0, c.TotalDays-1)
}

// CurrentDay maps wall-clock time to the 1-based campaign day. Returns 0
// before the campaign starts and TotalDays after it ends, so a finished
// campaign is still addressable as a catch-up target.
func (c *Campaign) CurrentDay(now time.Time) int {
	day := c.elapsedDays(now) + 1
	if day < 1 {
		return 0
	}
	if day > c.TotalDays {
		return c.TotalDays
	}
	return day
}

// Started reports whether the campaign has begun as of now
func (c *Campaign) Started(now time.Time) bool {
	return c.CurrentDay(now) >= 1
}

// Ended reports whether the last campaign day is already in the past.
// CurrentDay clamps to TotalDays, so this is the only way to tell "last
// day" and "finished" apart.
func (c *Campaign) Ended(now time.Time) bool {
	return c.elapsedDays(now)+1 > c.TotalDays
}

// elapsedDays counts whole calendar days between the start date and now,
// both truncated to midnight in the campaign zone. Rounding absorbs the
// off-by-an-hour midnights a DST transition produces.
func (c *Campaign) elapsedDays(now time.Time) int {
	start := dateOnly(c.StartDate, c.Location)
	today := dateOnly(now, c.Location)
	return int(today.Sub(start).Round(24*time.Hour) / (24 * time.Hour))
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
