package usuario

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const colunas = "id, nome, email, senha_hash, curso, telefone, cpf, ativo, criado_em"

// Repository acessa a tabela usuarios.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, input CreateInput, senhaHash string) (*Usuario, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO usuarios (id, nome, email, senha_hash, curso, telefone, cpf, ativo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
        RETURNING `+colunas,
		uuid.New(), strings.TrimSpace(input.Nome), strings.ToLower(strings.TrimSpace(input.Email)),
		senhaHash, input.Curso, input.Telefone, input.CPF,
	)

	u, err := scanUsuario(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailEmUso
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Usuario, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+colunas+" FROM usuarios WHERE email = $1",
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUsuario(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+colunas+" FROM usuarios WHERE id = $1", id)
	return scanUsuario(row)
}

func (r *Repository) List(ctx context.Context) ([]Usuario, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+colunas+" FROM usuarios ORDER BY nome ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lista []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		lista = append(lista, *u)
	}
	return lista, rows.Err()
}

func (r *Repository) UpdateSenhaHash(ctx context.Context, id uuid.UUID, senhaHash string) error {
	cmd, err := r.pool.Exec(ctx, "UPDATE usuarios SET senha_hash = $1 WHERE id = $2", senhaHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM usuarios WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUsuario(row pgx.Row) (*Usuario, error) {
	var u Usuario
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Curso, &u.Telefone, &u.CPF, &u.Ativo, &u.CriadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
