package identity

import "testing"

func TestResolverSetor(t *testing.T) {
	tests := []struct {
		email string
		want  Setor
	}{
		{"diretor@senai.br", SetorGeral},
		{"chile@senai.br", SetorInformatica},
		{"chile@docente.senai.br", SetorInformatica},
		{"jsilva@sp.senai.br", SetorInformatica},
		{"pino@senai.br", SetorMecanica},
		{"carlos.pino@sp.senai.br", SetorMecanica},
		{"vieira@docente.senai.br", SetorFaculdade},
		{"gomes@aluno.senai.br", SetorNenhum},
		{"qualquer@gmail.com", SetorNenhum},
		{"", SetorNenhum},
	}

	for _, tc := range tests {
		if got := ResolverSetor(tc.email); got != tc.want {
			t.Errorf("ResolverSetor(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestResolverSetorIdempotente(t *testing.T) {
	primeiro := ResolverSetor("pino@senai.br")
	segundo := ResolverSetor("pino@senai.br")
	if primeiro != segundo {
		t.Fatalf("resoluções divergentes: %q != %q", primeiro, segundo)
	}
}

func TestClassificar(t *testing.T) {
	tests := []struct {
		email string
		want  Perfil
	}{
		{"diretor@senai.br", PerfilAdmin},
		{"gomes@aluno.senai.br", PerfilAluno},
		{"silva@senai.br", PerfilFuncionario},
		{"souza@docente.senai.br", PerfilFuncionario},
		{"rh@portalsesisp.org.br", PerfilFuncionario},
		{"alguem@gmail.com", PerfilDesconhecido},
		{"", PerfilDesconhecido},
	}

	for _, tc := range tests {
		if got := Classificar(tc.email); got != tc.want {
			t.Errorf("Classificar(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestDestino(t *testing.T) {
	tests := []struct {
		email string
		want  string
		ok    bool
	}{
		{"diretor@senai.br", "/admin", true},
		{"chile@senai.br", "/admin/adm-info", true},
		{"pino@docente.senai.br", "/admin/adm-mec", true},
		{"vieira@senai.br", "/admin/adm-fac", true},
		{"gomes@aluno.senai.br", "/aluno", true},
		{"silva@senai.br", "/funcionario", true},
		{"alguem@gmail.com", "", false},
	}

	for _, tc := range tests {
		got, ok := Destino(tc.email)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Destino(%q) = (%q, %v), want (%q, %v)", tc.email, got, ok, tc.want, tc.ok)
		}
	}
}
