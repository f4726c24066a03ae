package security

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implementa a interface PasswordHasher usando bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cria o hasher. cost fora da faixa aceita pelo bcrypt vira DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// HashPassword gera um hash seguro da senha.
func (h *BcryptHasher) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ComparePassword compara uma senha em texto plano com um hash.
func (h *BcryptHasher) ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
