package manifestacao

import (
	"errors"
	"testing"
)

func TestStatusPermitidosPorTipo(t *testing.T) {
	tests := []struct {
		tipo string
		want []string
	}{
		{TipoReclamacao, []string{StatusPendente, StatusEmAndamento, StatusResolvida, StatusCancelada}},
		{TipoDenuncia, []string{StatusPendente, StatusEmAnalise, StatusResolvida, StatusArquivada}},
		{TipoElogio, []string{StatusPendente, StatusLida, StatusArquivada}},
		{TipoSugestao, []string{StatusPendente, StatusEmAnalise, StatusAprovada, StatusRejeitada, StatusImplementada}},
	}

	for _, tc := range tests {
		got, err := StatusPermitidos(tc.tipo)
		if err != nil {
			t.Fatalf("StatusPermitidos(%s): %v", tc.tipo, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("StatusPermitidos(%s) = %v, want %v", tc.tipo, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("StatusPermitidos(%s)[%d] = %q, want %q", tc.tipo, i, got[i], tc.want[i])
			}
		}
	}
}

func TestStatusPermitidosTipoDesconhecido(t *testing.T) {
	if _, err := StatusPermitidos("Abaixo-assinado"); !errors.Is(err, ErrTipoDesconhecido) {
		t.Fatalf("tipo fora do conjunto deveria falhar fechado, obteve %v", err)
	}
}

func TestValidarTransicaoExigeResposta(t *testing.T) {
	// Sair de Pendente sem resposta é rejeitado antes de qualquer escrita.
	if err := ValidarTransicao(TipoReclamacao, StatusResolvida, ""); !errors.Is(err, ErrRespostaObrigatoria) {
		t.Fatalf("esperava ErrRespostaObrigatoria, obteve %v", err)
	}
	if err := ValidarTransicao(TipoReclamacao, StatusResolvida, "   "); !errors.Is(err, ErrRespostaObrigatoria) {
		t.Fatalf("resposta em branco deveria contar como vazia, obteve %v", err)
	}

	if err := ValidarTransicao(TipoReclamacao, StatusResolvida, "equipamento substituído"); err != nil {
		t.Fatalf("transição com resposta deveria passar: %v", err)
	}
}

func TestValidarTransicaoPendenteSemResposta(t *testing.T) {
	// Pendente é destino legal de reset e não exige resposta.
	if err := ValidarTransicao(TipoSugestao, StatusPendente, ""); err != nil {
		t.Fatalf("voltar a Pendente não exige resposta: %v", err)
	}
}

func TestValidarTransicaoStatusDeOutroTipo(t *testing.T) {
	// Em Andamento pertence a Reclamação, não a Elogio.
	if err := ValidarTransicao(TipoElogio, StatusEmAndamento, "ok"); !errors.Is(err, ErrStatusInvalido) {
		t.Fatalf("esperava ErrStatusInvalido, obteve %v", err)
	}
}

func TestValidarTransicaoReabertura(t *testing.T) {
	// Nenhum estado é terminal: Resolvida pode voltar a Em Andamento.
	if err := ValidarTransicao(TipoReclamacao, StatusEmAndamento, "reaberta após novo relato"); err != nil {
		t.Fatalf("reabertura deveria ser permitida: %v", err)
	}
}

func TestCanonicoStatusNormaliza(t *testing.T) {
	got, err := CanonicoStatus(TipoDenuncia, "  em analise ")
	if err != nil {
		t.Fatal(err)
	}
	if got != StatusEmAnalise {
		t.Fatalf("CanonicoStatus = %q, want %q", got, StatusEmAnalise)
	}
}
