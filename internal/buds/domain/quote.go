package domain

import "time"

type Quote struct {
	ID        int
	Text      string
	Author    string
	CreatedAt time.Time
}
