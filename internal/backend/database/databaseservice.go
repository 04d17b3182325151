package database

import (
	"context"
	"database/sql"
	"time"
)

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// CreateQuestion inserts a pending question and returns its id.
	CreateQuestion(ctx context.Context, question string, submittedAt time.Time) (int64, error)
	// GetQuestionByID returns nil without error when no row has the id.
	GetQuestionByID(ctx context.Context, id int64) (*Question, error)
	// GetAnsweredQuestions returns answered questions, most recently answered first.
	GetAnsweredQuestions(ctx context.Context) ([]*Question, error)
	// GetAllQuestions returns every question, most recently submitted first.
	GetAllQuestions(ctx context.Context) ([]*Question, error)
	// AnswerQuestion sets answer, answered_at and status in one statement. It
	// reports false when no row has the id.
	AnswerQuestion(ctx context.Context, id int64, answer string, answeredAt time.Time) (bool, error)
}
