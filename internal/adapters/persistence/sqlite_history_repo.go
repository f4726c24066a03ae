package persistence

import (
	"context"
	"database/sql"
	"errors"

	"quizapp/internal/domain/history"
	"quizapp/internal/domain/quiz"
)

type SQLiteHistoryRepository struct {
	db *sql.DB
}

func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

const attemptColumns = `id, user_id, strategy, criteria, correct_count, total, percentage, started_at, finished_at`

// SaveAttempt salva a tentativa e as perguntas erradas (transactional).
func (r *SQLiteHistoryRepository) SaveAttempt(ctx context.Context, a *history.Attempt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Tentativa
	queryAttempt := `
		INSERT INTO quiz_attempts (` + attemptColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, queryAttempt,
		a.ID, a.UserID, a.Strategy, a.Criteria,
		a.CorrectCount, a.Total, a.Percentage, a.StartedAt, a.FinishedAt,
	)
	if err != nil {
		return err
	}

	// 2. Erros, na ordem em que aconteceram
	queryMiss := `
		INSERT INTO attempt_misses (attempt_id, position, question_text, chosen_key, chosen_text, correct_key, correct_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, m := range a.Missed {
		_, err = tx.ExecContext(ctx, queryMiss,
			a.ID, i, m.QuestionText, m.ChosenKey, m.ChosenText, m.CorrectKey, m.CorrectText,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByUserID lista as tentativas do usuário, mais recentes primeiro. Não carrega os erros.
func (r *SQLiteHistoryRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*history.Attempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM quiz_attempts
		WHERE user_id = ?
		ORDER BY finished_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]*history.Attempt, 0)
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// GetByID busca a tentativa com a lista de erros.
func (r *SQLiteHistoryRepository) GetByID(ctx context.Context, id string) (*history.Attempt, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+attemptColumns+` FROM quiz_attempts WHERE id = ?`, id)
	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	// Carrega os erros
	mRows, err := r.db.QueryContext(ctx, `
		SELECT question_text, chosen_key, chosen_text, correct_key, correct_text
		FROM attempt_misses
		WHERE attempt_id = ?
		ORDER BY position`, a.ID)
	if err != nil {
		return nil, err
	}
	defer mRows.Close()

	for mRows.Next() {
		var m quiz.MissRecord
		if err := mRows.Scan(&m.QuestionText, &m.ChosenKey, &m.ChosenText, &m.CorrectKey, &m.CorrectText); err != nil {
			return nil, err
		}
		a.Missed = append(a.Missed, m)
	}
	return a, mRows.Err()
}

// Stats retorna estatísticas agregadas de todas as tentativas.
func (r *SQLiteHistoryRepository) Stats(ctx context.Context) (*history.Stats, error) {
	stats := &history.Stats{
		ByStrategy:        make(map[string]int),
		AverageByStrategy: make(map[string]float64),
	}

	// AVG retorna NULL sem linhas
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id), AVG(percentage) FROM quiz_attempts`,
	).Scan(&stats.TotalAttempts, &avg); err != nil {
		return nil, err
	}
	stats.AveragePercentage = avg.Float64

	rows, err := r.db.QueryContext(ctx, `
		SELECT strategy, COUNT(id), AVG(percentage)
		FROM quiz_attempts
		GROUP BY strategy`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			strategy string
			count    int
			average  float64
		)
		if err := rows.Scan(&strategy, &count, &average); err != nil {
			return nil, err
		}
		stats.ByStrategy[strategy] = count
		stats.AverageByStrategy[strategy] = average
	}
	return stats, rows.Err()
}

func scanAttempt(row rowScanner) (*history.Attempt, error) {
	var a history.Attempt
	if err := row.Scan(
		&a.ID, &a.UserID, &a.Strategy, &a.Criteria,
		&a.CorrectCount, &a.Total, &a.Percentage, &a.StartedAt, &a.FinishedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
