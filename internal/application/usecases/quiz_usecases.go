package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quizapp/internal/domain/quiz"
	"quizapp/internal/infra/logger"
	"quizapp/internal/ports"
)

var ErrNenhumQuizAtivo = errors.New("nenhum quiz em andamento")

// QuizUseCases conduz o quiz de um usuário: início, respostas e resultado.
// O estado vive no SessionStore; requisições da mesma sessão são serializadas.
type QuizUseCases struct {
	questions *QuestionUseCases
	sessions  ports.SessionStore
	users     ports.UserRepository
	historyUC *HistoryUseCases
	feed      ports.ResultsFeed
	metrics   ports.QuizMetrics

	locksMu sync.Mutex
	locks   map[string]*sessionLock // removido quando ninguém mais usa
	now     func() time.Time
}

// sessionLock serializa uma sessão; refs conta quem segura ou espera o lock.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewQuizUseCases(
	questions *QuestionUseCases,
	sessions ports.SessionStore,
	users ports.UserRepository,
	historyUC *HistoryUseCases,
	feed ports.ResultsFeed,
	metrics ports.QuizMetrics,
) *QuizUseCases {
	return &QuizUseCases{
		questions: questions,
		sessions:  sessions,
		users:     users,
		historyUC: historyUC,
		feed:      feed,
		metrics:   metrics,
		locks:     make(map[string]*sessionLock),
		now:       time.Now,
	}
}

type StartInput struct {
	Strategy   string `json:"strategy"`
	Difficulty *int   `json:"difficulty,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Count      *int   `json:"count,omitempty"`
}

// Criteria converte a entrada em critério de seleção.
func (in StartInput) Criteria() (quiz.Criteria, error) {
	strategy, err := quiz.ParseStrategy(in.Strategy)
	if err != nil {
		return quiz.Criteria{}, err
	}

	switch strategy {
	case quiz.StrategyDifficulty:
		if in.Difficulty == nil {
			return quiz.Criteria{}, fmt.Errorf("%w: dificuldade não informada", quiz.ErrCriterioInvalido)
		}
		return quiz.ByDifficulty(*in.Difficulty), nil
	case quiz.StrategyTheme:
		return quiz.ByTheme(in.Theme), nil
	case quiz.StrategyRandom:
		if in.Count == nil {
			return quiz.Criteria{}, fmt.Errorf("%w: quantidade não informada", quiz.ErrCriterioInvalido)
		}
		return quiz.RandomSample(*in.Count), nil
	default:
		return quiz.AllQuestions(), nil
	}
}

type AnswerInput struct {
	Index  int    `json:"index"`
	Answer string `json:"answer"`
}

// AnswerFeedback informa o resultado da última resposta aceita.
type AnswerFeedback struct {
	Correct bool             `json:"correct"`
	Miss    *quiz.MissRecord `json:"miss,omitempty"`
}

// QuizView é o que o cliente precisa para desenhar a tela do quiz.
// Question nunca inclui a alternativa correta.
type QuizView struct {
	Question   *quiz.QuestionView `json:"question,omitempty"`
	Index      int                `json:"index"`
	Total      int                `json:"total"`
	Completed  bool               `json:"completed"`
	Criteria   string             `json:"criteria"`
	Error      string             `json:"error,omitempty"`
	LastAnswer *AnswerFeedback    `json:"lastAnswer,omitempty"`
	Summary    *quiz.Summary      `json:"summary,omitempty"`
}

func newQuizView(c quiz.Criteria, s *quiz.Session) *QuizView {
	v := &QuizView{
		Index:     s.CurrentIndex,
		Total:     s.Total(),
		Completed: s.Completed(),
		Criteria:  c.Label(),
	}
	if q, ok := s.Current(); ok {
		qv := q.View()
		v.Question = &qv
	}
	return v
}

// Start seleciona as perguntas uma única vez e abre o quiz na sessão,
// substituindo um quiz anterior ainda aberto.
func (uc *QuizUseCases) Start(ctx context.Context, sessionID string, input StartInput) (*QuizView, error) {
	criteria, err := input.Criteria()
	if err != nil {
		return nil, err
	}

	unlock := uc.lock(sessionID)
	defer unlock()

	selected, err := uc.questions.Select(criteria)
	if err != nil {
		return nil, err
	}

	s := quiz.NewSession(selected)
	if err := uc.save(ctx, sessionID, newSessionRecord(criteria, s, uc.now())); err != nil {
		return nil, err
	}

	uc.metrics.QuizStarted(criteria.Strategy.String())
	logger.Info("Quiz iniciado", "sessao", sessionID, "criterio", criteria.Label(), "total", s.Total())
	return newQuizView(criteria, s), nil
}

// Current retorna a pergunta aguardando resposta, ou o estado finalizado.
func (uc *QuizUseCases) Current(ctx context.Context, sessionID string) (*QuizView, error) {
	unlock := uc.lock(sessionID)
	defer unlock()

	rec, s, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newQuizView(rec.Criteria, s), nil
}

// Answer registra a resposta da pergunta atual. Em erro de validação o estado
// não muda e a view retornada reexibe a mesma pergunta junto com o erro.
func (uc *QuizUseCases) Answer(ctx context.Context, sessionID string, input AnswerInput) (*QuizView, error) {
	unlock := uc.lock(sessionID)
	defer unlock()

	rec, s, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.Submit(input.Index, input.Answer)
	if err != nil {
		if quiz.IsValidationError(err) {
			uc.metrics.AnswerRecorded("invalid")
			view := newQuizView(rec.Criteria, s)
			view.Error = err.Error()
			return view, err
		}
		return nil, err
	}

	rec.update(s)
	if err := uc.save(ctx, sessionID, rec); err != nil {
		return nil, err
	}

	if outcome.Correct {
		uc.metrics.AnswerRecorded("correct")
	} else {
		uc.metrics.AnswerRecorded("wrong")
	}

	view := newQuizView(rec.Criteria, s)
	view.LastAnswer = &AnswerFeedback{Correct: outcome.Correct, Miss: outcome.Miss}
	return view, nil
}

// Summary gera o resultado final e encerra o quiz: a sessão é limpa, a
// tentativa vai para o histórico e o evento é publicado no feed.
func (uc *QuizUseCases) Summary(ctx context.Context, sessionID, userID string) (*QuizView, error) {
	unlock := uc.lock(sessionID)
	defer unlock()

	rec, s, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary, err := s.Summarize()
	if err != nil {
		return nil, err
	}

	if _, err := uc.sessions.Pop(ctx, sessionID, quizSessionKey); err != nil {
		return nil, err
	}

	finishedAt := uc.now()
	if _, err := uc.historyUC.ArchiveAttempt(ctx, userID, rec.Criteria, summary, rec.StartedAt, finishedAt); err != nil {
		// O resultado continua válido para o usuário mesmo sem histórico
		logger.Error("Falha ao arquivar tentativa", "erro", err, "usuario", userID)
	}

	uc.metrics.QuizCompleted(summary.Percentage)
	uc.publish(ctx, userID, summary)

	view := newQuizView(rec.Criteria, s)
	view.Summary = &summary
	return view, nil
}

// Abandon descarta o quiz em andamento, se houver.
func (uc *QuizUseCases) Abandon(ctx context.Context, sessionID string) error {
	unlock := uc.lock(sessionID)
	defer unlock()

	_, err := uc.sessions.Pop(ctx, sessionID, quizSessionKey)
	return err
}

func (uc *QuizUseCases) publish(ctx context.Context, userID string, summary quiz.Summary) {
	name := ""
	if u, err := uc.users.FindByID(ctx, userID); err == nil && u != nil {
		name = u.Name
	}
	uc.feed.Broadcast("quiz_completed", map[string]interface{}{
		"userName":   name,
		"percentage": summary.Percentage,
		"total":      summary.Total,
	})
}

func (uc *QuizUseCases) lock(sessionID string) func() {
	uc.locksMu.Lock()
	l, ok := uc.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		uc.locks[sessionID] = l
	}
	l.refs++
	uc.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		uc.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(uc.locks, sessionID)
		}
		uc.locksMu.Unlock()
	}
}

// load lê e reconstrói o quiz da sessão. Um registro que não pode ser
// reconstruído (banco de perguntas alterado, por exemplo) é descartado.
func (uc *QuizUseCases) load(ctx context.Context, sessionID string) (sessionRecord, *quiz.Session, error) {
	data, err := uc.sessions.Get(ctx, sessionID, quizSessionKey)
	if err != nil {
		return sessionRecord{}, nil, err
	}
	if data == nil {
		return sessionRecord{}, nil, ErrNenhumQuizAtivo
	}

	rec, err := decodeRecord(data)
	if err == nil {
		var s *quiz.Session
		if s, err = rec.restore(uc.questions.Restore); err == nil {
			return rec, s, nil
		}
	}

	logger.Warn("Sessão de quiz descartada", "sessao", sessionID, "erro", err)
	if _, popErr := uc.sessions.Pop(ctx, sessionID, quizSessionKey); popErr != nil {
		return sessionRecord{}, nil, popErr
	}
	return sessionRecord{}, nil, ErrNenhumQuizAtivo
}

func (uc *QuizUseCases) save(ctx context.Context, sessionID string, rec sessionRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return uc.sessions.Set(ctx, sessionID, quizSessionKey, data)
}
