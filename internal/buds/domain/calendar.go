package domain

import "time"

// Badge is an activity award pinned to a calendar day.
type Badge struct {
	ID        int
	UserID    int
	AwardedOn time.Time // date component only
	Kind      string
	CreatedAt time.Time
}

// CalendarDay is one day of the monthly view: whether a diary entry exists
// and which badges were awarded.
type CalendarDay struct {
	Day      int      `json:"day"`
	HasDiary bool     `json:"has_diary"`
	Badges   []string `json:"badges,omitempty"`
}

// MonthSummary is the per-user monthly calendar.
type MonthSummary struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}
