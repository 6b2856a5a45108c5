package manifestacao

import (
	"strings"

	"github.com/ouvidoriasenai/api/internal/texto"
)

// statusPorTipo define o conjunto de status permitido por tipo de
// manifestação. Pendente é o estado inicial de todos e sempre é um
// destino legal (reset explícito).
var statusPorTipo = map[string][]string{
	TipoReclamacao: {StatusPendente, StatusEmAndamento, StatusResolvida, StatusCancelada},
	TipoDenuncia:   {StatusPendente, StatusEmAnalise, StatusResolvida, StatusArquivada},
	TipoElogio:     {StatusPendente, StatusLida, StatusArquivada},
	TipoSugestao:   {StatusPendente, StatusEmAnalise, StatusAprovada, StatusRejeitada, StatusImplementada},
}

// StatusPermitidos lista os status válidos para o tipo informado.
// Tipos fora do conjunto canônico falham fechado: nenhuma opção é
// oferecida em vez de adivinhar.
func StatusPermitidos(tipo string) ([]string, error) {
	canon, ok := CanonicoTipo(tipo)
	if !ok {
		return nil, ErrTipoDesconhecido
	}
	return statusPorTipo[canon], nil
}

// CanonicoStatus devolve o rótulo canônico de um status dentro do tipo.
func CanonicoStatus(tipo, status string) (string, error) {
	permitidos, err := StatusPermitidos(tipo)
	if err != nil {
		return "", err
	}
	n := texto.Normalizar(status)
	for _, s := range permitidos {
		if texto.Normalizar(s) == n {
			return s, nil
		}
	}
	return "", ErrStatusInvalido
}

// ValidarTransicao verifica a mudança de status antes de qualquer
// escrita: o status precisa pertencer ao conjunto do tipo e qualquer
// saída de Pendente exige resposta não vazia do administrador.
func ValidarTransicao(tipo, novoStatus, resposta string) error {
	canon, err := CanonicoStatus(tipo, novoStatus)
	if err != nil {
		return err
	}

	if canon != StatusPendente && strings.TrimSpace(resposta) == "" {
		return ErrRespostaObrigatoria
	}

	return nil
}
