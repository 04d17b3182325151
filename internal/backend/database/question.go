package database

import "time"

// Status is the lifecycle state of a question.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnswered Status = "answered"
)

// Question is one row of the questions table. Answer and AnsweredAt are set
// together, exactly when Status is StatusAnswered.
type Question struct {
	ID          int64      `json:"id"`
	Question    string     `json:"question"`
	Answer      *string    `json:"answer"`
	SubmittedAt time.Time  `json:"submitted_at"`
	AnsweredAt  *time.Time `json:"answered_at"`
	Status      Status     `json:"status"`
}

// timestampLayout is fixed width so that stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}
