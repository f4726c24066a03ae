package handlers

import (
	"net/http"

	"quizapp/internal/adapters/http/middlewares"
	"quizapp/internal/application/usecases"
	"quizapp/internal/domain/quiz"
)

// QuizHandler conduz o quiz da sessão autenticada.
type QuizHandler struct {
	quizUC *usecases.QuizUseCases
}

func NewQuizHandler(quizUC *usecases.QuizUseCases) *QuizHandler {
	return &QuizHandler{quizUC: quizUC}
}

// Start godoc
// @Summary Inicia um quiz
// @Description Seleciona as perguntas (all, difficulty, theme ou random) e retorna a primeira.
// @Tags Quiz
// @Accept json
// @Produce json
// @Param body body usecases.StartInput true "Critério de seleção"
// @Success 201 {object} usecases.QuizView
// @Failure 400 {object} ErrorResponse "Critério inválido"
// @Router /api/quiz/start [post]
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var input usecases.StartInput
	if !decodeJSON(w, r, &input) {
		return
	}

	view, err := h.quizUC.Start(r.Context(), middlewares.SessionID(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Current godoc
// @Summary Pergunta atual
// @Tags Quiz
// @Produce json
// @Success 200 {object} usecases.QuizView
// @Failure 404 {object} ErrorResponse "Nenhum quiz em andamento"
// @Router /api/quiz/current [get]
func (h *QuizHandler) Current(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizUC.Current(r.Context(), middlewares.SessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Answer godoc
// @Summary Responde a pergunta atual
// @Description Em resposta vazia, alternativa inexistente ou índice desatualizado, retorna 422 com a mesma pergunta.
// @Tags Quiz
// @Accept json
// @Produce json
// @Param body body usecases.AnswerInput true "Resposta"
// @Success 200 {object} usecases.QuizView
// @Failure 422 {object} usecases.QuizView "Resposta inválida, pergunta reexibida"
// @Failure 409 {object} ErrorResponse "Quiz já finalizado"
// @Router /api/quiz/answer [post]
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var input usecases.AnswerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	view, err := h.quizUC.Answer(r.Context(), middlewares.SessionID(r), input)
	if err != nil {
		if quiz.IsValidationError(err) && view != nil {
			writeJSON(w, http.StatusUnprocessableEntity, view)
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Summary godoc
// @Summary Resultado final
// @Description Só depois da última resposta. Encerra o quiz e registra a tentativa no histórico.
// @Tags Quiz
// @Produce json
// @Success 200 {object} usecases.QuizView
// @Failure 404 {object} ErrorResponse "Nenhum quiz em andamento"
// @Failure 409 {object} ErrorResponse "Quiz ainda não finalizado"
// @Router /api/quiz/summary [get]
func (h *QuizHandler) Summary(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizUC.Summary(r.Context(), middlewares.SessionID(r), middlewares.UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Abandon godoc
// @Summary Descarta o quiz em andamento
// @Tags Quiz
// @Success 204 "Quiz descartado"
// @Router /api/quiz [delete]
func (h *QuizHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.quizUC.Abandon(r.Context(), middlewares.SessionID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
