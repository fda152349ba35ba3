package domain

import "time"

type Diary struct {
	ID        int
	UserID    int
	EntryDate time.Time // date component only, stored as yyyy-mm-dd
	Content   string
	Emotion   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
