package usecases

import (
	"context"

	"quizapp/internal/infra/logger"
	"quizapp/internal/ports"
)

// revokedSessionKey marca, dentro da própria sessão, que houve logout.
// A marca expira com o TTL do store, o mesmo do token.
const revokedSessionKey = "revoked"

// SessionUseCases cuida do fim de uma sessão aberta no login.
type SessionUseCases struct {
	sessions ports.SessionStore
	quizUC   *QuizUseCases
}

func NewSessionUseCases(sessions ports.SessionStore, quizUC *QuizUseCases) *SessionUseCases {
	return &SessionUseCases{sessions: sessions, quizUC: quizUC}
}

// Logout descarta o quiz em andamento e revoga o ID de sessão, de modo que o
// mesmo token deixa de ser aceito mesmo antes de expirar.
func (uc *SessionUseCases) Logout(ctx context.Context, sessionID string) error {
	if err := uc.quizUC.Abandon(ctx, sessionID); err != nil {
		return err
	}
	if err := uc.sessions.Set(ctx, sessionID, revokedSessionKey, []byte("1")); err != nil {
		return err
	}
	logger.Info("Sessão encerrada", "sessao", sessionID)
	return nil
}

// IsRevoked implementa ports.SessionRevoker.
func (uc *SessionUseCases) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	data, err := uc.sessions.Get(ctx, sessionID, revokedSessionKey)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}
