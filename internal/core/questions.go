package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jo-hoe/sialiccatalog/internal/backend/database"
	"github.com/jo-hoe/sialiccatalog/internal/backend/notification"
	"github.com/jo-hoe/sialiccatalog/internal/common"
)

// QuestionBoard runs the question lifecycle: pending on submission, answered
// once an administrator replies. The database is the only copy of the state.
type QuestionBoard struct {
	db                  database.DatabaseService
	notifier            notification.Notifier
	notificationTimeout time.Duration
	metrics             *serviceMetrics
	now                 func() time.Time
}

func NewQuestionBoard(db database.DatabaseService, notifier notification.Notifier, notificationTimeout time.Duration) *QuestionBoard {
	if notifier == nil {
		notifier = notification.LogNotifier{}
	}
	if notificationTimeout <= 0 {
		notificationTimeout = defaultNotificationTimeout
	}
	return &QuestionBoard{
		db:                  db,
		notifier:            notifier,
		notificationTimeout: notificationTimeout,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores a pending question and notifies in the background. A failed
// notification never affects the stored question.
func (b *QuestionBoard) Submit(ctx context.Context, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		b.count("submit", common.ErrValidation)
		return 0, fmt.Errorf("%w: question must not be empty", common.ErrValidation)
	}

	id, err := b.db.CreateQuestion(ctx, text, b.now())
	b.count("submit", err)
	if err != nil {
		return 0, fmt.Errorf("failed to store question: %w", err)
	}
	slog.Info("question submitted", "question_id", id)

	go b.notify(notification.QuestionNotice{ID: id, Question: text})
	return id, nil
}

func (b *QuestionBoard) notify(notice notification.QuestionNotice) {
	ctx, cancel := context.WithTimeout(context.Background(), b.notificationTimeout)
	defer cancel()

	err := b.notifier.NotifyQuestion(ctx, notice)
	if b.metrics != nil {
		b.metrics.notifications.WithLabelValues(outcome(err)).Inc()
	}
	if err != nil {
		slog.Error("question notification failed",
			"question_id", notice.ID,
			"error", fmt.Errorf("%w: %v", common.ErrNotification, err))
	}
}

// ListAnswered returns answered questions, most recently answered first.
func (b *QuestionBoard) ListAnswered(ctx context.Context) ([]*database.Question, error) {
	questions, err := b.db.GetAnsweredQuestions(ctx)
	b.count("list_answered", err)
	return questions, err
}

// ListAll returns every question, most recently submitted first.
func (b *QuestionBoard) ListAll(ctx context.Context) ([]*database.Question, error) {
	questions, err := b.db.GetAllQuestions(ctx)
	b.count("list_all", err)
	return questions, err
}

// Answer records an answer and returns the updated question. Answering an
// answered question overwrites the previous answer.
func (b *QuestionBoard) Answer(ctx context.Context, id int64, text string) (*database.Question, error) {
	text = strings.TrimSpace(text)
	if id <= 0 || text == "" {
		b.count("answer", common.ErrValidation)
		return nil, fmt.Errorf("%w: question id and answer are required", common.ErrValidation)
	}

	updated, err := b.db.AnswerQuestion(ctx, id, text, b.now())
	if err != nil {
		b.count("answer", err)
		return nil, fmt.Errorf("failed to store answer: %w", err)
	}
	if !updated {
		b.count("answer", common.ErrNotFound)
		return nil, fmt.Errorf("question %d: %w", id, common.ErrNotFound)
	}
	b.count("answer", nil)
	slog.Info("question answered", "question_id", id)

	question, err := b.db.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload question %d: %w", id, err)
	}
	if question == nil {
		return nil, fmt.Errorf("question %d: %w", id, common.ErrNotFound)
	}
	return question, nil
}

func (b *QuestionBoard) count(action string, err error) {
	if b.metrics != nil {
		b.metrics.questions.WithLabelValues(action, outcome(err)).Inc()
	}
}
