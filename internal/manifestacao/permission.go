package manifestacao

import (
	"github.com/ouvidoriasenai/api/internal/texto"
)

// Permissao é o nível de acesso de um administrador sobre uma manifestação.
// SomenteCorrigirSetor é deliberadamente distinto de EdicaoCompleta: quem
// pode consertar o roteamento de um registro não ganha edição de conteúdo.
type Permissao int

const (
	PermissaoNegada Permissao = iota
	SomenteLeitura
	SomenteCorrigirSetor
	EdicaoCompleta
)

func (p Permissao) String() string {
	switch p {
	case SomenteLeitura:
		return "leitura"
	case SomenteCorrigirSetor:
		return "corrigir_setor"
	case EdicaoCompleta:
		return "edicao_completa"
	}
	return "negada"
}

// PodeEditar indica edição completa (salvar resposta/status, excluir).
func (p Permissao) PodeEditar() bool { return p == EdicaoCompleta }

// PodeCorrigirSetor indica se ao menos o campo setor pode ser alterado.
func (p Permissao) PodeCorrigirSetor() bool {
	return p == SomenteCorrigirSetor || p == EdicaoCompleta
}

// PodeVisualizar indica acesso de leitura ao registro.
func (p Permissao) PodeVisualizar() bool { return p != PermissaoNegada }

// Avaliar é a fonte única da decisão de permissão: dado o setor do
// administrador e a manifestação, devolve o nível de acesso. Toda mutação
// (salvar, excluir, corrigir setor) precisa passar por aqui imediatamente
// antes de ser aplicada, contra o registro recarregado por id.
//
// Regras, com entradas normalizadas:
//   - Geral edita tudo.
//   - Cada setor edita as próprias manifestações e as Gerais.
//   - Mecânica adicionalmente edita qualquer Reclamação, independente do
//     setor alvo (regra legada de roteamento; assimétrica e mantida).
//   - Demais divergências de setor: o admin visualiza e pode apenas
//     corrigir o setor de um registro mal roteado.
func Avaliar(m Manifestacao, setorAdmin string) Permissao {
	admin := texto.Normalizar(setorAdmin)
	if admin == "" {
		return PermissaoNegada
	}

	canonAdmin, ok := CanonicoSetor(admin)
	if !ok {
		return PermissaoNegada
	}

	if canonAdmin == SetorGeral {
		return EdicaoCompleta
	}

	alvo := texto.Normalizar(m.Setor)
	if alvo == texto.Normalizar(canonAdmin) || alvo == texto.Normalizar(SetorGeral) {
		return EdicaoCompleta
	}

	if canonAdmin == SetorMecanica {
		if tipo, ok := CanonicoTipo(m.Tipo); ok && tipo == TipoReclamacao {
			return EdicaoCompleta
		}
	}

	return SomenteCorrigirSetor
}
