package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNomeObrigatorio = errors.New("o nome de usuário é obrigatório")
	ErrNomeInvalido    = errors.New("o nome de usuário deve ter de 3 a 32 caracteres (letras, números, . _ -)")
	ErrSenhaCurta      = errors.New("a senha deve ter no mínimo 6 caracteres")
	ErrNomeDuplicado   = errors.New("nome de usuário já cadastrado")
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,32}$`)

// User representa uma conta de jogador.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Nunca sai no JSON
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser cria um usuário validando nome e senha em texto plano.
// O hash deve ser definido depois com SetPassword.
func NewUser(name, password string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNomeObrigatorio
	}
	if !nameRegex.MatchString(name) {
		return nil, ErrNomeInvalido
	}
	if len(password) < 6 {
		return nil, ErrSenhaCurta
	}

	now := time.Now()
	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetPassword define o hash da senha.
func (u *User) SetPassword(hash string) {
	u.PasswordHash = hash
}

// Promote concede acesso administrativo.
func (u *User) Promote() {
	u.IsAdmin = true
	u.UpdatedAt = time.Now()
}
