package usuario

import (
	"context"

	"github.com/google/uuid"

	"github.com/ouvidoriasenai/api/internal/auth"
	"github.com/ouvidoriasenai/api/internal/util"
)

// Store abstrai a persistência de usuários.
type Store interface {
	Create(ctx context.Context, input CreateInput, senhaHash string) (*Usuario, error)
	GetByEmail(ctx context.Context, email string) (*Usuario, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error)
	List(ctx context.Context) ([]Usuario, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service concentra cadastro e consulta do diretório.
type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Registrar cria uma conta nova com hash Argon2id.
func (s *Service) Registrar(ctx context.Context, input CreateInput) (*Usuario, error) {
	if err := util.RequireString(input.Nome, "nome"); err != nil {
		return nil, err
	}
	if err := util.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(input.Senha); err != nil {
		return nil, err
	}

	hash, err := auth.Hash(input.Senha)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, input, hash)
}

// ObterPorEmail retorna a conta pelo e-mail normalizado.
func (s *Service) ObterPorEmail(ctx context.Context, email string) (*Usuario, error) {
	return s.repo.GetByEmail(ctx, email)
}

// ObterPorID retorna a conta pelo identificador.
func (s *Service) ObterPorID(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	return s.repo.GetByID(ctx, id)
}

// Listar devolve o diretório completo ordenado por nome.
func (s *Service) Listar(ctx context.Context) ([]Usuario, error) {
	return s.repo.List(ctx)
}

// Excluir remove a conta definitivamente.
func (s *Service) Excluir(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
