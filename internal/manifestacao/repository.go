package manifestacao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const colunas = "id, tipo, setor, status, nome, contato, local, descricao, anexo, resposta_admin, data_resposta, criado_em, atualizado_em"

// Repository provê acesso à tabela de manifestações.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create insere uma nova manifestação com status Pendente.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Manifestacao, error) {
	query := fmt.Sprintf(`
        INSERT INTO manifestacoes (tipo, setor, status, nome, contato, local, descricao, anexo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING %s
    `, colunas)

	row := r.pool.QueryRow(ctx, query,
		input.Tipo,
		input.Setor,
		StatusPendente,
		strings.TrimSpace(input.Nome),
		strings.TrimSpace(input.Contato),
		strings.TrimSpace(input.Local),
		strings.TrimSpace(input.Descricao),
		input.Anexo,
	)

	return scanManifestacao(row)
}

// GetByID busca uma manifestação específica.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Manifestacao, error) {
	query := fmt.Sprintf(`SELECT %s FROM manifestacoes WHERE id = $1`, colunas)
	row := r.pool.QueryRow(ctx, query, id)
	return scanManifestacao(row)
}

// List lista manifestações aplicando filtros simples. O recorte de setor
// nunca acontece aqui: é responsabilidade da camada de permissão.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Manifestacao, error) {
	base := fmt.Sprintf(`SELECT %s FROM manifestacoes`, colunas)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if tipo := strings.TrimSpace(filter.Tipo); tipo != "" {
		clauses = append(clauses, fmt.Sprintf("tipo = $%d", idx))
		args = append(args, tipo)
		idx++
	}

	if contato := strings.TrimSpace(filter.Contato); contato != "" {
		clauses = append(clauses, fmt.Sprintf("contato = $%d", idx))
		args = append(args, contato)
		idx++
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY criado_em DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lista []Manifestacao
	for rows.Next() {
		m, err := scanManifestacao(rows)
		if err != nil {
			return nil, err
		}
		lista = append(lista, *m)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return lista, nil
}

// Update aplica o patch e devolve o registro atualizado.
func (r *Repository) Update(ctx context.Context, input UpdateInput) (*Manifestacao, error) {
	setParts := []string{}
	args := []any{}
	idx := 1

	if input.Setor != nil {
		setParts = append(setParts, fmt.Sprintf("setor = $%d", idx))
		args = append(args, *input.Setor)
		idx++
	}
	if input.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", idx))
		args = append(args, *input.Status)
		idx++
	}
	if input.RespostaAdmin != nil {
		setParts = append(setParts, fmt.Sprintf("resposta_admin = $%d", idx))
		args = append(args, *input.RespostaAdmin)
		idx++
	}
	if input.DataResposta != nil {
		setParts = append(setParts, fmt.Sprintf("data_resposta = $%d", idx))
		args = append(args, *input.DataResposta)
		idx++
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, input.ID)
	}

	setParts = append(setParts, "atualizado_em = now()")

	args = append(args, input.ID)
	query := fmt.Sprintf(`
        UPDATE manifestacoes
        SET %s
        WHERE id = $%d
        RETURNING %s
    `, strings.Join(setParts, ", "), idx, colunas)

	row := r.pool.QueryRow(ctx, query, args...)
	return scanManifestacao(row)
}

// SetAnexo grava a referência do anexo enviado.
func (r *Repository) SetAnexo(ctx context.Context, id uuid.UUID, anexo string) (*Manifestacao, error) {
	query := fmt.Sprintf(`
        UPDATE manifestacoes
        SET anexo = $1, atualizado_em = now()
        WHERE id = $2
        RETURNING %s
    `, colunas)

	row := r.pool.QueryRow(ctx, query, anexo, id)
	return scanManifestacao(row)
}

// Delete remove a manifestação definitivamente.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM manifestacoes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanManifestacao(row pgx.Row) (*Manifestacao, error) {
	var m Manifestacao
	if err := row.Scan(&m.ID, &m.Tipo, &m.Setor, &m.Status, &m.Nome, &m.Contato, &m.Local, &m.Descricao, &m.Anexo, &m.RespostaAdmin, &m.DataResposta, &m.CriadoEm, &m.AtualizadoEm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
