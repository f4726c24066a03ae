package usecases

import (
	"encoding/json"
	"fmt"
	"time"

	"quizapp/internal/domain/quiz"
)

// quizSessionKey é a chave do quiz em andamento dentro da sessão do usuário.
const quizSessionKey = "quiz"

// sessionRecord é a forma serializada do quiz guardada no SessionStore.
// As perguntas são salvas só pelo ID e recuperadas do banco na leitura.
type sessionRecord struct {
	Criteria     quiz.Criteria     `json:"criteria"`
	QuestionIDs  []int             `json:"questionIds"`
	CurrentIndex int               `json:"currentIndex"`
	CorrectCount int               `json:"correctCount"`
	Missed       []quiz.MissRecord `json:"missed"`
	StartedAt    time.Time         `json:"startedAt"`
}

func newSessionRecord(c quiz.Criteria, s *quiz.Session, startedAt time.Time) sessionRecord {
	ids := make([]int, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return sessionRecord{
		Criteria:     c,
		QuestionIDs:  ids,
		CurrentIndex: s.CurrentIndex,
		CorrectCount: s.CorrectCount,
		Missed:       s.Missed,
		StartedAt:    startedAt,
	}
}

// update copia o progresso da sessão para o registro.
func (r *sessionRecord) update(s *quiz.Session) {
	r.CurrentIndex = s.CurrentIndex
	r.CorrectCount = s.CorrectCount
	r.Missed = s.Missed
}

func encodeRecord(r sessionRecord) ([]byte, error) {
	return json.Marshal(r)
}

func decodeRecord(data []byte) (sessionRecord, error) {
	var r sessionRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return sessionRecord{}, fmt.Errorf("registro de sessão inválido: %w", err)
	}
	return r, nil
}

// restore reconstrói a sessão de domínio a partir do registro.
func (r sessionRecord) restore(lookup func([]int) ([]quiz.Question, error)) (*quiz.Session, error) {
	questions, err := lookup(r.QuestionIDs)
	if err != nil {
		return nil, err
	}
	return quiz.RestoreSession(questions, r.CurrentIndex, r.CorrectCount, r.Missed)
}
