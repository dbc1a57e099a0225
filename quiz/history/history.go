package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/smarthome-go/quiz/quiz/parser/ast"
	"github.com/smarthome-go/quiz/quiz/runner"
)

// Attempt is one finished quiz session.
type Attempt struct {
	ID        string    `json:"id" yaml:"id"`
	Filename  string    `json:"filename" yaml:"filename"`
	Title     string    `json:"title" yaml:"title"`
	Score     int64     `json:"score" yaml:"score"`
	Total     int64     `json:"total" yaml:"total"`
	Pass      int64     `json:"pass" yaml:"pass"`
	Passed    bool      `json:"passed" yaml:"passed"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

func NewAttempt(quiz ast.Quiz, result runner.Result) Attempt {
	return Attempt{
		ID:        uuid.New().String(),
		Filename:  quiz.Filename,
		Title:     quiz.Metaline.Title,
		Score:     result.Score,
		Total:     result.Total,
		Pass:      result.Pass,
		Passed:    result.Passed,
		Timestamp: time.Now().UTC(),
	}
}

func (self Attempt) String() string {
	verdict := "failed"
	if self.Passed {
		verdict = "passed"
	}

	return fmt.Sprintf(
		"%s  %-24s %s scored %d out of %d (%s)",
		self.Timestamp.Local().Format(time.DateTime),
		self.Title,
		self.Filename,
		self.Score,
		self.Total,
		verdict,
	)
}

// Filter restricts which attempts are listed; zero values match everything.
type Filter struct {
	Filename string
	Limit    int
}

type Store struct {
	db *sql.DB
}

// Characters which would otherwise end the path part of a file URI.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// dsn turns a filesystem path into a SQLite file URI carrying the connection options.
func dsn(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?_journal_mode=WAL&_synchronous=NORMAL"
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (self *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		title TEXT NOT NULL,
		score INTEGER NOT NULL,
		total INTEGER NOT NULL,
		pass INTEGER NOT NULL,
		passed BOOLEAN NOT NULL,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_timestamp ON attempts(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_attempts_filename ON attempts(filename);
	`

	_, err := self.db.Exec(schema)
	return err
}

func (self *Store) Record(ctx context.Context, attempt Attempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now().UTC()
	}

	_, err := self.db.ExecContext(ctx, `
		INSERT INTO attempts (id, filename, title, score, total, pass, passed, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, attempt.ID, attempt.Filename, attempt.Title, attempt.Score, attempt.Total, attempt.Pass, attempt.Passed, attempt.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}

	return nil
}

// List returns matching attempts, newest first.
func (self *Store) List(ctx context.Context, filter Filter) ([]Attempt, error) {
	query := `SELECT id, filename, title, score, total, pass, passed, timestamp FROM attempts WHERE 1=1`
	var args []interface{}

	if filter.Filename != "" {
		query += " AND filename = ?"
		args = append(args, filter.Filename)
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := self.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]Attempt, 0)
	for rows.Next() {
		var attempt Attempt
		if err := rows.Scan(
			&attempt.ID,
			&attempt.Filename,
			&attempt.Title,
			&attempt.Score,
			&attempt.Total,
			&attempt.Pass,
			&attempt.Passed,
			&attempt.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

func (self *Store) Close() error {
	return self.db.Close()
}
