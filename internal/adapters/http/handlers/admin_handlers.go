package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizapp/internal/application/usecases"
)

type AdminHandler struct {
	adminUC *usecases.AdminUseCases
}

func NewAdminHandler(adminUC *usecases.AdminUseCases) *AdminHandler {
	return &AdminHandler{adminUC: adminUC}
}

// ListUsers godoc
// @Summary Lista as contas
// @Tags Admin
// @Produce json
// @Success 200 {array} user.User
// @Failure 403 "Apenas administradores"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminUC.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// PromoteUser godoc
// @Summary Promove uma conta a administradora
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} user.User
// @Failure 404 {object} ErrorResponse "Usuário não encontrado"
// @Router /admin/users/{id}/promote [post]
func (h *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.adminUC.PromoteUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
