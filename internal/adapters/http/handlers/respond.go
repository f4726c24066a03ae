package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizapp/internal/application/usecases"
	"quizapp/internal/domain/quiz"
	"quizapp/internal/domain/user"
	"quizapp/internal/infra/logger"
)

// ErrorResponse é o corpo padrão de erro.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError traduz erros de domínio em status HTTP. Erros não mapeados
// são registrados e respondidos com mensagem genérica.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Erro interno", "erro", err, "metodo", r.Method, "rota", r.URL.Path)
		writeJSON(w, status, ErrorResponse{Error: "Erro interno do servidor"})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case quiz.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, quiz.ErrQuantidadeInvalida),
		errors.Is(err, quiz.ErrCriterioInvalido),
		errors.Is(err, quiz.ErrEstrategiaDesconhecida),
		errors.Is(err, user.ErrNomeObrigatorio),
		errors.Is(err, user.ErrNomeInvalido),
		errors.Is(err, user.ErrSenhaCurta):
		return http.StatusBadRequest
	case errors.Is(err, usecases.ErrNenhumQuizAtivo),
		errors.Is(err, usecases.ErrUsuarioNaoEncontrado),
		errors.Is(err, usecases.ErrTentativaNaoEncontrada):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrQuizNaoFinalizado),
		errors.Is(err, quiz.ErrQuizFinalizado),
		errors.Is(err, quiz.ErrResumoJaGerado),
		errors.Is(err, usecases.ErrNomeDuplicado):
		return http.StatusConflict
	case errors.Is(err, usecases.ErrCredenciaisInvalidas):
		return http.StatusUnauthorized
	case errors.Is(err, usecases.ErrNaoAutorizado):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON lê o corpo limitado a 1 MiB.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido"})
		return false
	}
	return true
}
