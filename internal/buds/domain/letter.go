package domain

import "time"

// Letter delivery states.
const (
	LetterSent = "SENT"
	LetterRead = "READ"
)

// Match pairs two users for letter exchange. Letters may only flow between
// matched users.
type Match struct {
	ID        int
	User1ID   int
	User2ID   int
	CreatedAt time.Time
}

// Partner returns the other user in the match, or 0 when userID is not a
// participant.
func (m Match) Partner(userID int) int {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	default:
		return 0
	}
}

type Letter struct {
	ID         int
	MatchID    int
	SenderID   int
	ReceiverID int
	Content    string
	Status     string
	Favorite   bool // set per viewer when listing
	CreatedAt  time.Time
}
