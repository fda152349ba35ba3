package domain

import "time"

// CS question states.
const (
	QuestionOpen     = "OPEN"
	QuestionAnswered = "ANSWERED"
)

// Question is a customer-support ticket raised by a user.
type Question struct {
	ID        int
	UserID    int
	Title     string
	Content   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Answer is populated when the question has been answered.
	Answer *Answer
}

// Answer is an admin's reply to a question.
type Answer struct {
	ID         int
	QuestionID int
	AdminID    int
	Content    string
	CreatedAt  time.Time
}
