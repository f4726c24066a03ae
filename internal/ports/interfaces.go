package ports

import (
	"context"

	"quizapp/internal/domain/history"
	"quizapp/internal/domain/quiz"
	"quizapp/internal/domain/user"
)

// UserRepository define as operações de persistência de contas.
type UserRepository interface {
	// Create salva um novo usuário. Se ainda não houver nenhum, ele é gravado
	// como admin e u.IsAdmin é atualizado. Nome repetido retorna user.ErrNomeDuplicado.
	Create(ctx context.Context, u *user.User) error

	// FindByName busca pelo nome. Retorna nil, nil se não existir.
	FindByName(ctx context.Context, name string) (*user.User, error)

	// FindByID busca pelo ID. Retorna nil, nil se não existir.
	FindByID(ctx context.Context, id string) (*user.User, error)

	List(ctx context.Context) ([]*user.User, error)
	Promote(ctx context.Context, id string) error
}

// PasswordHasher define o contrato para hash e verificação de senhas.
type PasswordHasher interface {
	HashPassword(password string) (string, error)

	// ComparePassword retorna nil se a senha corresponde ao hash.
	ComparePassword(hash, password string) error
}

// SessionClaims é o conteúdo do cookie de sessão assinado.
type SessionClaims struct {
	UserID    string
	SessionID string
}

// TokenService assina e valida o cookie de sessão.
type TokenService interface {
	// GenerateToken retorna o token e a validade em segundos.
	GenerateToken(userID, sessionID string) (string, int64, error)
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// SessionStore guarda o estado do lado do servidor entre requisições.
type SessionStore interface {
	// Get retorna nil, nil se a chave não existir.
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	// Pop remove a chave e retorna o valor anterior (nil se não existia).
	Pop(ctx context.Context, sessionID, key string) ([]byte, error)
}

// SessionRevoker informa se um ID de sessão foi encerrado no logout.
type SessionRevoker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// QuestionRepository dá acesso somente leitura ao banco de perguntas.
type QuestionRepository interface {
	All() []quiz.Question
	FindByIDs(ids []int) ([]quiz.Question, error)
	Themes() []string
	Difficulties() []int
}

// HistoryRepository persiste os resultados de quizzes finalizados.
type HistoryRepository interface {
	SaveAttempt(ctx context.Context, a *history.Attempt) error
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*history.Attempt, error)
	// GetByID retorna nil, nil se não existir.
	GetByID(ctx context.Context, id string) (*history.Attempt, error)
	Stats(ctx context.Context) (*history.Stats, error)
}

// ResultsFeed publica eventos em tempo real (WebSocket).
type ResultsFeed interface {
	Broadcast(eventType string, payload interface{})
}

// QuizMetrics registra métricas do fluxo do quiz.
type QuizMetrics interface {
	QuizStarted(strategy string)
	AnswerRecorded(outcome string)
	QuizCompleted(percentage float64)
}
