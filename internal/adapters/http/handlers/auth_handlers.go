package handlers

import (
	"net/http"
	"time"

	"quizapp/internal/adapters/http/middlewares"
	"quizapp/internal/application/usecases"
)

// CookieOptions controla o cookie de sessão.
type CookieOptions struct {
	Secure bool
}

// AuthHandler agrupa os handlers de autenticação.
type AuthHandler struct {
	registerUC *usecases.RegisterUserUseCase
	loginUC    *usecases.LoginUserUseCase
	getMeUC    *usecases.GetMeUseCase
	sessionUC  *usecases.SessionUseCases
	cookie     CookieOptions
}

// NewAuthHandler cria um novo handler de autenticação.
func NewAuthHandler(
	registerUC *usecases.RegisterUserUseCase,
	loginUC *usecases.LoginUserUseCase,
	getMeUC *usecases.GetMeUseCase,
	sessionUC *usecases.SessionUseCases,
	cookie CookieOptions,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		getMeUC:    getMeUC,
		sessionUC:  sessionUC,
		cookie:     cookie,
	}
}

// Register godoc
// @Summary Cadastra um novo usuário
// @Description Cria uma conta com nome e senha. A primeira conta criada é administradora.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body usecases.RegisterInput true "Dados de cadastro"
// @Success 201 {object} usecases.RegisterOutput
// @Failure 400 {object} ErrorResponse "Erro de validação"
// @Failure 409 {object} ErrorResponse "Nome já cadastrado"
// @Failure 500 {object} ErrorResponse "Erro interno"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecases.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.registerUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

// Login godoc
// @Summary Autentica um usuário
// @Description Valida nome e senha, abre uma sessão e grava o cookie quiz_session.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body usecases.LoginInput true "Credenciais"
// @Success 200 {object} usecases.LoginOutput
// @Failure 401 {object} ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} ErrorResponse "Erro interno"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecases.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.loginUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.SessionCookieName,
		Value:    output.AccessToken,
		Path:     "/",
		MaxAge:   int(output.ExpiresIn),
		Expires:  time.Now().Add(time.Duration(output.ExpiresIn) * time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, output)
}

// Logout godoc
// @Summary Encerra a sessão
// @Description Descarta o quiz em andamento, revoga a sessão e apaga o cookie.
// @Tags Auth
// @Success 204 "Sessão encerrada"
// @Failure 401 "Não autenticado"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionUC.Logout(r.Context(), middlewares.SessionID(r)); err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// GetMe godoc
// @Summary Retorna dados do usuário logado
// @Tags Auth
// @Produce json
// @Success 200 {object} user.User
// @Failure 401 "Não autenticado"
// @Failure 404 {object} ErrorResponse "Usuário removido"
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	output, err := h.getMeUC.Execute(r.Context(), middlewares.UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
