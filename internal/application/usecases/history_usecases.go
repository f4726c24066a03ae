package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"quizapp/internal/domain/history"
	"quizapp/internal/domain/quiz"
	"quizapp/internal/ports"
)

var ErrTentativaNaoEncontrada = errors.New("tentativa não encontrada")

type HistoryUseCases struct {
	historyRepo ports.HistoryRepository
}

func NewHistoryUseCases(historyRepo ports.HistoryRepository) *HistoryUseCases {
	return &HistoryUseCases{historyRepo: historyRepo}
}

// ArchiveAttempt converte o resultado de um quiz em histórico persistente.
func (uc *HistoryUseCases) ArchiveAttempt(ctx context.Context, userID string, criteria quiz.Criteria, summary quiz.Summary, startedAt, finishedAt time.Time) (*history.Attempt, error) {
	a := &history.Attempt{
		ID:           uuid.NewString(),
		UserID:       userID,
		Strategy:     criteria.Strategy.String(),
		Criteria:     criteria.Label(),
		CorrectCount: summary.CorrectCount,
		Total:        summary.Total,
		Percentage:   summary.Percentage,
		StartedAt:    startedAt.UTC(),
		FinishedAt:   finishedAt.UTC(),
		Missed:       summary.Missed,
	}
	if err := uc.historyRepo.SaveAttempt(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttempts lista o histórico paginado do usuário (page começa em 1).
func (uc *HistoryUseCases) ListAttempts(ctx context.Context, userID string, page, limit int) ([]*history.Attempt, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit
	return uc.historyRepo.ListByUserID(ctx, userID, limit, offset)
}

// GetAttempt retorna o detalhe da tentativa. Só o dono ou um admin podem ver;
// para os demais a tentativa "não existe".
func (uc *HistoryUseCases) GetAttempt(ctx context.Context, id, requesterID string, requesterIsAdmin bool) (*history.Attempt, error) {
	a, err := uc.historyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || (a.UserID != requesterID && !requesterIsAdmin) {
		return nil, ErrTentativaNaoEncontrada
	}
	return a, nil
}

func (uc *HistoryUseCases) Stats(ctx context.Context) (*history.Stats, error) {
	return uc.historyRepo.Stats(ctx)
}
