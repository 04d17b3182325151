package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dialect captures the differences between the supported SQL engines.
type dialect struct {
	name        string
	schema      string
	placeholder func(n int) string
}

var sqliteDialect = dialect{
	name: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT,
		submitted_at TEXT NOT NULL,
		answered_at TEXT,
		status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'answered'))
	)`,
	placeholder: func(int) string { return "?" },
}

var postgresDialect = dialect{
	name: "postgres",
	schema: `CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT,
		submitted_at TEXT NOT NULL,
		answered_at TEXT,
		status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'answered'))
	)`,
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// rebind rewrites ? placeholders for the dialect.
func (d dialect) rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const questionColumns = "id, question, answer, submitted_at, answered_at, status"

// sqlStore implements DatabaseService over database/sql. Every operation
// takes its own connection from the pool and returns it before leaving.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *sqlStore) CreateDatabase() (*sql.DB, error) {
	if _, err := s.db.Exec(s.dialect.schema); err != nil {
		return nil, fmt.Errorf("failed to create questions table: %w", err)
	}
	return s.db, nil
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqlStore) DoesDatabaseExist() bool {
	return s.db.Ping() == nil
}

func (s *sqlStore) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire %s connection: %w", s.dialect.name, err)
	}
	defer func() {
		_ = conn.Close() // returns the connection to the pool
	}()
	return fn(conn)
}

func (s *sqlStore) CreateQuestion(ctx context.Context, question string, submittedAt time.Time) (int64, error) {
	var id int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		query := s.dialect.rebind("INSERT INTO questions (question, submitted_at, status) VALUES (?, ?, ?) RETURNING id")
		return conn.QueryRowContext(ctx, query, question, formatTimestamp(submittedAt), string(StatusPending)).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *sqlStore) GetQuestionByID(ctx context.Context, id int64) (*Question, error) {
	var question *Question
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, s.dialect.rebind("SELECT "+questionColumns+" FROM questions WHERE id = ?"), id)
		q, err := scanQuestion(row)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		question = q
		return nil
	})
	return question, err
}

func (s *sqlStore) GetAnsweredQuestions(ctx context.Context) ([]*Question, error) {
	return s.queryQuestions(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE status = ? ORDER BY answered_at DESC, id DESC",
		string(StatusAnswered))
}

func (s *sqlStore) GetAllQuestions(ctx context.Context) ([]*Question, error) {
	return s.queryQuestions(ctx,
		"SELECT "+questionColumns+" FROM questions ORDER BY submitted_at DESC, id DESC")
}

func (s *sqlStore) queryQuestions(ctx context.Context, query string, args ...any) ([]*Question, error) {
	questions := []*Question{}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, s.dialect.rebind(query), args...)
		if err != nil {
			return err
		}
		defer func() {
			_ = rows.Close()
		}()

		for rows.Next() {
			q, err := scanQuestion(rows)
			if err != nil {
				return err
			}
			questions = append(questions, q)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *sqlStore) AnswerQuestion(ctx context.Context, id int64, answer string, answeredAt time.Time) (bool, error) {
	var affected int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx,
			s.dialect.rebind("UPDATE questions SET answer = ?, answered_at = ?, status = ? WHERE id = ?"),
			answer, formatTimestamp(answeredAt), string(StatusAnswered), id)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (*Question, error) {
	var (
		q           Question
		answer      sql.NullString
		submittedAt string
		answeredAt  sql.NullString
		status      string
	)
	if err := row.Scan(&q.ID, &q.Question, &answer, &submittedAt, &answeredAt, &status); err != nil {
		return nil, err
	}

	submitted, err := parseTimestamp(submittedAt)
	if err != nil {
		return nil, fmt.Errorf("question %d has invalid submitted_at %q: %w", q.ID, submittedAt, err)
	}
	q.SubmittedAt = submitted
	q.Status = Status(status)

	if answer.Valid {
		a := answer.String
		q.Answer = &a
	}
	if answeredAt.Valid {
		answered, err := parseTimestamp(answeredAt.String)
		if err != nil {
			return nil, fmt.Errorf("question %d has invalid answered_at %q: %w", q.ID, answeredAt.String, err)
		}
		q.AnsweredAt = &answered
	}
	return &q, nil
}
