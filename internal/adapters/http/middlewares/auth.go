package middlewares

import (
	"context"
	"net/http"
	"strings"

	"quizapp/internal/ports"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	SessionIDKey contextKey = "sessionID"
)

// SessionCookieName é o cookie assinado que identifica usuário e sessão.
const SessionCookieName = "quiz_session"

// AuthMiddleware valida o cookie de sessão (ou o header Bearer, para clientes
// de API), recusa sessões encerradas no logout e injeta usuário e sessão no contexto.
func AuthMiddleware(tokenService ports.TokenService, revoker ports.SessionRevoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				http.Error(w, "Autenticação requerida", http.StatusUnauthorized)
				return
			}

			claims, err := tokenService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Sessão inválida ou expirada: "+err.Error(), http.StatusUnauthorized)
				return
			}

			revoked, err := revoker.IsRevoked(r.Context(), claims.SessionID)
			if err != nil {
				http.Error(w, "Erro interno do servidor", http.StatusInternalServerError)
				return
			}
			if revoked {
				http.Error(w, "Sessão encerrada", http.StatusUnauthorized)
				return
			}

			// Injeta IDs no contexto
			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// RequireAdmin bloqueia quem não é administrador. Deve vir depois do AuthMiddleware.
func RequireAdmin(users ports.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := users.FindByID(r.Context(), UserID(r))
			if err != nil {
				http.Error(w, "Erro interno do servidor", http.StatusInternalServerError)
				return
			}
			if u == nil {
				http.Error(w, "Usuário não encontrado", http.StatusUnauthorized)
				return
			}
			if !u.IsAdmin {
				http.Error(w, "Acesso restrito a administradores", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID retorna o usuário autenticado (vazio fora de rotas protegidas).
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

// SessionID retorna a sessão autenticada (vazio fora de rotas protegidas).
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(SessionIDKey).(string)
	return id
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
