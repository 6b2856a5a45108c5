package manifestacao

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ouvidoriasenai/api/internal/texto"
)

var (
	ErrNotFound             = errors.New("manifestação não encontrada")
	ErrPermissaoNegada      = errors.New("sem permissão para esta manifestação")
	ErrTipoDesconhecido     = errors.New("tipo de manifestação desconhecido")
	ErrSetorInvalido        = errors.New("setor inválido")
	ErrStatusInvalido       = errors.New("status inválido para o tipo")
	ErrRespostaObrigatoria  = errors.New("resposta do administrador é obrigatória para sair de Pendente")
	ErrContatoObrigatorio   = errors.New("contato obrigatório")
	ErrDescricaoObrigatoria = errors.New("descrição obrigatória")
	ErrLocalObrigatorio     = errors.New("local obrigatório")
)

const (
	TipoReclamacao = "Reclamação"
	TipoDenuncia   = "Denúncia"
	TipoElogio     = "Elogio"
	TipoSugestao   = "Sugestão"

	SetorGeral       = "Geral"
	SetorInformatica = "Informática"
	SetorMecanica    = "Mecânica"
	SetorFaculdade   = "Faculdade"

	StatusPendente     = "Pendente"
	StatusEmAndamento  = "Em Andamento"
	StatusEmAnalise    = "Em Análise"
	StatusResolvida    = "Resolvida"
	StatusCancelada    = "Cancelada"
	StatusArquivada    = "Arquivada"
	StatusLida         = "Lida"
	StatusAprovada     = "Aprovada"
	StatusRejeitada    = "Rejeitada"
	StatusImplementada = "Implementada"
)

var tiposCanonicos = []string{TipoReclamacao, TipoDenuncia, TipoElogio, TipoSugestao}

var setoresCanonicos = []string{SetorGeral, SetorInformatica, SetorMecanica, SetorFaculdade}

// Manifestacao representa um registro enviado pela ouvidoria.
type Manifestacao struct {
	ID            uuid.UUID  `json:"id"`
	Tipo          string     `json:"tipo"`
	Setor         string     `json:"setor"`
	Status        string     `json:"status"`
	Nome          string     `json:"nome"`
	Contato       string     `json:"contato"`
	Local         string     `json:"local"`
	Descricao     string     `json:"descricao"`
	Anexo         *string    `json:"anexo,omitempty"`
	RespostaAdmin *string    `json:"resposta_admin,omitempty"`
	DataResposta  *time.Time `json:"data_resposta,omitempty"`
	CriadoEm      time.Time  `json:"criado_em"`
	AtualizadoEm  time.Time  `json:"atualizado_em"`
}

// CreateInput encapsula os campos de uma nova submissão.
type CreateInput struct {
	Tipo      string
	Setor     string
	Nome      string
	Contato   string
	Local     string
	Descricao string
	Anexo     *string
	Anonima   bool
}

// UpdateInput carrega o patch aplicado pelo repositório.
type UpdateInput struct {
	ID            uuid.UUID
	Setor         *string
	Status        *string
	RespostaAdmin *string
	DataResposta  *time.Time
}

// Filter restringe listagens. Sem recorte de página: os cards do painel
// contam o volume do sistema inteiro, então a listagem devolve tudo.
type Filter struct {
	Tipo    string
	Contato string
}

// CanonicoTipo devolve o rótulo canônico do tipo, se reconhecido.
func CanonicoTipo(tipo string) (string, bool) {
	n := texto.Normalizar(tipo)
	for _, t := range tiposCanonicos {
		if texto.Normalizar(t) == n {
			return t, true
		}
	}
	return "", false
}

// CanonicoSetor devolve o rótulo canônico do setor, se reconhecido.
// Valores fora dos quatro setores são tratados como não atribuídos:
// exibição cai em Geral, mas a permissão nunca.
func CanonicoSetor(setor string) (string, bool) {
	n := texto.Normalizar(setor)
	for _, s := range setoresCanonicos {
		if texto.Normalizar(s) == n {
			return s, true
		}
	}
	return "", false
}

// SetorExibicao devolve o setor para exibição, com fallback Geral.
func (m Manifestacao) SetorExibicao() string {
	if canon, ok := CanonicoSetor(m.Setor); ok {
		return canon
	}
	return SetorGeral
}
