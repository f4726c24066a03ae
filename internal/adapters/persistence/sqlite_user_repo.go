package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ncruces/go-sqlite3"

	"quizapp/internal/domain/user"
)

// SQLiteUserRepository implementa UserRepository para SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository cria uma nova instância do repositório.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

const userColumns = `id, name, password_hash, is_admin, created_at, updated_at`

// Create insere um novo usuário no banco. A primeira conta da tabela vira
// admin; a decisão sai do próprio INSERT.
func (r *SQLiteUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, password_hash, is_admin, created_at, updated_at)
		SELECT ?, ?, ?, (? OR NOT EXISTS (SELECT 1 FROM users)), ?, ?
		RETURNING is_admin
	`
	var isAdmin bool
	err := r.db.QueryRowContext(ctx, query,
		u.ID,
		u.Name,
		u.PasswordHash,
		u.IsAdmin,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
			return user.ErrNomeDuplicado
		}
		return err
	}

	u.IsAdmin = isAdmin
	return nil
}

// FindByName busca um usuário pelo nome.
func (r *SQLiteUserRepository) FindByName(ctx context.Context, name string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE name = ?`, name)
	return scanUser(row)
}

// FindByID busca um usuário pelo ID.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// List retorna todos os usuários em ordem de cadastro.
func (r *SQLiteUserRepository) List(ctx context.Context) ([]*user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Promote marca o usuário como administrador. Promover quem já é admin não é erro.
func (r *SQLiteUserRepository) Promote(ctx context.Context, id string) error {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return sql.ErrNoRows
	}
	u.Promote()

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET is_admin = ?, updated_at = ? WHERE id = ?`,
		u.IsAdmin, u.UpdatedAt, u.ID,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Não encontrado
		}
		return nil, err
	}
	return &u, nil
}
