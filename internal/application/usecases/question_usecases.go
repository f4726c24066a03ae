package usecases

import (
	"math/rand/v2"
	"sync"

	"quizapp/internal/domain/quiz"
	"quizapp/internal/ports"
)

// QuestionUseCases expõe o banco de perguntas para consulta e montagem de quizzes.
type QuestionUseCases struct {
	repo ports.QuestionRepository

	rngMu sync.Mutex
	rng   *rand.Rand // nil = fonte global
}

func NewQuestionUseCases(repo ports.QuestionRepository) *QuestionUseCases {
	return &QuestionUseCases{repo: repo}
}

// SetRand fixa a fonte de aleatoriedade (usado nos testes).
func (uc *QuestionUseCases) SetRand(r *rand.Rand) {
	uc.rngMu.Lock()
	uc.rng = r
	uc.rngMu.Unlock()
}

// Select aplica o critério sobre o banco completo.
func (uc *QuestionUseCases) Select(c quiz.Criteria) ([]quiz.Question, error) {
	uc.rngMu.Lock()
	defer uc.rngMu.Unlock()
	return quiz.Select(uc.repo.All(), c, uc.rng)
}

// Restore recupera as perguntas de uma sequência salva, na mesma ordem.
func (uc *QuestionUseCases) Restore(ids []int) ([]quiz.Question, error) {
	return uc.repo.FindByIDs(ids)
}

// Catalog lista o que pode ser escolhido ao iniciar um quiz.
type Catalog struct {
	Strategies     []string `json:"strategies"`
	Themes         []string `json:"themes"`
	Difficulties   []int    `json:"difficulties"`
	TotalQuestions int      `json:"totalQuestions"`
}

func (uc *QuestionUseCases) Catalog() Catalog {
	return Catalog{
		Strategies: []string{
			quiz.StrategyAll.String(),
			quiz.StrategyDifficulty.String(),
			quiz.StrategyTheme.String(),
			quiz.StrategyRandom.String(),
		},
		Themes:         uc.repo.Themes(),
		Difficulties:   uc.repo.Difficulties(),
		TotalQuestions: len(uc.repo.All()),
	}
}
