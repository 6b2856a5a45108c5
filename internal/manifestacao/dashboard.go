package manifestacao

import "github.com/ouvidoriasenai/api/internal/texto"

// Resumo agrega os contadores exibidos nos cards do painel administrativo.
type Resumo struct {
	Total      int `json:"total"`
	Pendentes  int `json:"pendentes"`
	Resolvidas int `json:"resolvidas"`
}

// ResumoProprio agrega os contadores do painel de aluno/funcionário.
type ResumoProprio struct {
	Total       int `json:"total"`
	EmAnalise   int `json:"em_analise"`
	Finalizadas int `json:"finalizadas"`
}

// Resumir computa os cards do painel administrativo. O total reflete o
// volume do sistema inteiro mesmo para admins de setor; pendentes e
// resolvidas contam apenas o subconjunto pelo qual o admin responde
// (edição completa).
func Resumir(lista []Manifestacao, setorAdmin string) Resumo {
	resumo := Resumo{Total: len(lista)}

	for _, m := range lista {
		if !Avaliar(m, setorAdmin).PodeEditar() {
			continue
		}
		switch texto.Normalizar(m.Status) {
		case texto.Normalizar(StatusPendente):
			resumo.Pendentes++
		case texto.Normalizar(StatusResolvida):
			resumo.Resolvidas++
		}
	}

	return resumo
}

// FiltrarPorTipo devolve apenas as linhas do tipo pedido; "Todos" ou
// vazio mantém a lista inteira. A seleção de filtro não altera os cards.
func FiltrarPorTipo(lista []Manifestacao, tipo string) []Manifestacao {
	n := texto.Normalizar(tipo)
	if n == "" || n == "todos" {
		return lista
	}

	out := make([]Manifestacao, 0, len(lista))
	for _, m := range lista {
		if texto.Normalizar(m.Tipo) == n {
			out = append(out, m)
		}
	}
	return out
}

// ResumirProprias computa os cards da visão "minhas manifestações",
// colapsando status como o portal do aluno: Pendente e Em Análise contam
// como em análise; Resolvida e Arquivada como finalizadas.
func ResumirProprias(lista []Manifestacao) ResumoProprio {
	resumo := ResumoProprio{Total: len(lista)}

	for _, m := range lista {
		switch texto.Normalizar(m.Status) {
		case texto.Normalizar(StatusPendente), texto.Normalizar(StatusEmAnalise), texto.Normalizar(StatusEmAndamento):
			resumo.EmAnalise++
		case texto.Normalizar(StatusResolvida), texto.Normalizar(StatusArquivada):
			resumo.Finalizadas++
		}
	}

	return resumo
}
