package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quizapp/internal/adapters/http/middlewares"
	"quizapp/internal/application/usecases"
)

type ReportHandler struct {
	historyUC *usecases.HistoryUseCases
	getMeUC   *usecases.GetMeUseCase
}

func NewReportHandler(historyUC *usecases.HistoryUseCases, getMeUC *usecases.GetMeUseCase) *ReportHandler {
	return &ReportHandler{historyUC: historyUC, getMeUC: getMeUC}
}

// ListAttempts godoc
// @Summary Histórico de quizzes
// @Description Lista as tentativas finalizadas do usuário logado, mais recentes primeiro.
// @Tags Reports
// @Produce json
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Limite (default 20)"
// @Success 200 {array} history.Attempt
// @Router /reports/attempts [get]
func (h *ReportHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	attempts, err := h.historyUC.ListAttempts(r.Context(), middlewares.UserID(r), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

// GetAttempt godoc
// @Summary Detalhe de uma tentativa
// @Description Inclui as perguntas erradas. Visível para o dono e para administradores.
// @Tags Reports
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} history.Attempt
// @Failure 404 {object} ErrorResponse "Tentativa não encontrada"
// @Router /reports/attempts/{id} [get]
func (h *ReportHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	me, err := h.getMeUC.Execute(r.Context(), middlewares.UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	attempt, err := h.historyUC.GetAttempt(r.Context(), chi.URLParam(r, "id"), me.ID, me.IsAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

// Stats godoc
// @Summary Estatísticas gerais
// @Description Agregado de todas as tentativas, por estratégia. Apenas administradores.
// @Tags Reports
// @Produce json
// @Success 200 {object} history.Stats
// @Failure 403 "Apenas administradores"
// @Router /reports/stats [get]
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.historyUC.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
