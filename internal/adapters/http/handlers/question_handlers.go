package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quizapp/internal/application/usecases"
	"quizapp/internal/domain/quiz"
)

// QuestionHandler expõe o banco de perguntas. As rotas de listagem trazem a
// resposta correta e ficam restritas a administradores.
type QuestionHandler struct {
	questionUC *usecases.QuestionUseCases
}

func NewQuestionHandler(questionUC *usecases.QuestionUseCases) *QuestionHandler {
	return &QuestionHandler{questionUC: questionUC}
}

// ListAll godoc
// @Summary Lista todas as perguntas
// @Tags Questions
// @Produce json
// @Success 200 {array} quiz.Question
// @Router /api/questions [get]
func (h *QuestionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, quiz.AllQuestions())
}

// ByDifficulty godoc
// @Summary Lista perguntas de uma dificuldade
// @Tags Questions
// @Produce json
// @Param difficulty path int true "Dificuldade"
// @Success 200 {array} quiz.Question
// @Failure 400 {object} ErrorResponse "Dificuldade inválida"
// @Router /api/questions/difficulty/{difficulty} [get]
func (h *QuestionHandler) ByDifficulty(w http.ResponseWriter, r *http.Request) {
	d, err := strconv.Atoi(chi.URLParam(r, "difficulty"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "dificuldade deve ser um número inteiro"})
		return
	}
	h.respond(w, r, quiz.ByDifficulty(d))
}

// ByTheme godoc
// @Summary Lista perguntas de um tema
// @Tags Questions
// @Produce json
// @Param theme path string true "Tema"
// @Success 200 {array} quiz.Question
// @Router /api/questions/theme/{theme} [get]
func (h *QuestionHandler) ByTheme(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, quiz.ByTheme(chi.URLParam(r, "theme")))
}

// Random godoc
// @Summary Sorteia perguntas sem repetição
// @Tags Questions
// @Produce json
// @Param count path int true "Quantidade"
// @Success 200 {array} quiz.Question
// @Failure 400 {object} ErrorResponse "Quantidade inválida"
// @Router /api/questions/random/{count} [get]
func (h *QuestionHandler) Random(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "quantidade deve ser um número inteiro"})
		return
	}
	h.respond(w, r, quiz.RandomSample(n))
}

// Catalog godoc
// @Summary Opções disponíveis para iniciar um quiz
// @Tags Quiz
// @Produce json
// @Success 200 {object} usecases.Catalog
// @Router /api/quiz/catalog [get]
func (h *QuestionHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.questionUC.Catalog())
}

func (h *QuestionHandler) respond(w http.ResponseWriter, r *http.Request, c quiz.Criteria) {
	questions, err := h.questionUC.Select(c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}
