package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"quizapp/internal/domain/user"
	"quizapp/internal/ports"
)

// Casos de erro comuns
var (
	ErrNomeDuplicado        = user.ErrNomeDuplicado
	ErrCredenciaisInvalidas = errors.New("usuário ou senha inválidos")
	ErrUsuarioNaoEncontrado = errors.New("usuário não encontrado")
	ErrNaoAutorizado        = errors.New("acesso restrito a administradores")
)

// RegisterUserUseCase coordena o cadastro de um novo usuário.
type RegisterUserUseCase struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
}

func NewRegisterUserUseCase(repo ports.UserRepository, hasher ports.PasswordHasher) *RegisterUserUseCase {
	return &RegisterUserUseCase{repo: repo, hasher: hasher}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type RegisterOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// Execute cadastra o usuário. A primeira conta criada vira administradora.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	// 1. Cria entidade com validações de domínio
	newUser, err := user.NewUser(input.Name, input.Password)
	if err != nil {
		return nil, err
	}

	// 2. Verifica se o nome já existe
	existing, err := uc.repo.FindByName(ctx, newUser.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNomeDuplicado
	}

	// 3. Hash da senha
	hashedPassword, err := uc.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	newUser.SetPassword(hashedPassword)

	// 4. Persiste (admin e nome único são decididos no INSERT)
	if err := uc.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	return &RegisterOutput{
		ID:      newUser.ID,
		Name:    newUser.Name,
		IsAdmin: newUser.IsAdmin,
	}, nil
}

// LoginUserUseCase coordena o login e abre uma nova sessão.
type LoginUserUseCase struct {
	repo         ports.UserRepository
	hasher       ports.PasswordHasher
	tokenService ports.TokenService
}

func NewLoginUserUseCase(repo ports.UserRepository, hasher ports.PasswordHasher, tokenService ports.TokenService) *LoginUserUseCase {
	return &LoginUserUseCase{repo: repo, hasher: hasher, tokenService: tokenService}
}

type LoginInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginOutput struct {
	AccessToken string     `json:"accessToken"`
	ExpiresIn   int64      `json:"expiresIn"` // Segundos
	User        *user.User `json:"user"`
}

func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	// 1. Busca usuário
	u, err := uc.repo.FindByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrCredenciaisInvalidas
	}

	// 2. Valida senha
	if err := uc.hasher.ComparePassword(u.PasswordHash, input.Password); err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	// 3. Gera token com um ID de sessão novo
	token, expiresIn, err := uc.tokenService.GenerateToken(u.ID, uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		User:        u,
	}, nil
}

// GetMeUseCase retorna dados do usuário logado.
type GetMeUseCase struct {
	repo ports.UserRepository
}

func NewGetMeUseCase(repo ports.UserRepository) *GetMeUseCase {
	return &GetMeUseCase{repo: repo}
}

func (uc *GetMeUseCase) Execute(ctx context.Context, userID string) (*user.User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUsuarioNaoEncontrado
	}
	return u, nil
}

// AdminUseCases reúne as operações administrativas sobre contas.
type AdminUseCases struct {
	repo ports.UserRepository
}

func NewAdminUseCases(repo ports.UserRepository) *AdminUseCases {
	return &AdminUseCases{repo: repo}
}

func (uc *AdminUseCases) ListUsers(ctx context.Context) ([]*user.User, error) {
	return uc.repo.List(ctx)
}

// PromoteUser concede acesso de administrador. É idempotente.
func (uc *AdminUseCases) PromoteUser(ctx context.Context, id string) (*user.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUsuarioNaoEncontrado
	}
	if !u.IsAdmin {
		if err := uc.repo.Promote(ctx, id); err != nil {
			return nil, err
		}
		u.Promote()
	}
	return u, nil
}
