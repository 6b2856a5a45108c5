package usuario

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ouvidoriasenai/api/internal/identity"
)

var (
	// ErrNotFound indica usuário inexistente.
	ErrNotFound = errors.New("usuário não encontrado")
	// ErrEmailEmUso indica cadastro duplicado.
	ErrEmailEmUso = errors.New("e-mail já cadastrado")
)

// Usuario representa uma conta cadastrada no portal.
type Usuario struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	SenhaHash string    `json:"-"`
	Curso     *string   `json:"curso,omitempty"`
	Telefone  *string   `json:"telefone,omitempty"`
	CPF       *string   `json:"cpf,omitempty"`
	Ativo     bool      `json:"ativo"`
	CriadoEm  time.Time `json:"criado_em"`
}

// Tipo deriva a categoria exibida no diretório a partir do e-mail.
// O cadastro não guarda papel; tudo decorre do endereço.
func (u Usuario) Tipo() string {
	switch identity.Classificar(u.Email) {
	case identity.PerfilAdmin:
		return "Administrador"
	case identity.PerfilAluno:
		return "Aluno"
	case identity.PerfilFuncionario:
		return "Funcionário"
	default:
		return "Visitante"
	}
}

// CreateInput agrupa os campos de cadastro.
type CreateInput struct {
	Nome     string
	Email    string
	Senha    string
	Curso    *string
	Telefone *string
	CPF      *string
}
