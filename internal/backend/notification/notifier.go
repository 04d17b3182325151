// Package notification tells the site owner about new questions.
package notification

import (
	"context"
	"log/slog"
)

// QuestionNotice describes a newly submitted question.
type QuestionNotice struct {
	ID       int64
	Question string
}

// Notifier delivers a notice. Implementations must respect ctx cancellation.
type Notifier interface {
	NotifyQuestion(ctx context.Context, notice QuestionNotice) error
}

// LogNotifier only logs notices. It is used when no mail server is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyQuestion(_ context.Context, notice QuestionNotice) error {
	slog.Info("new question received (mail notification disabled)", "question_id", notice.ID)
	return nil
}
