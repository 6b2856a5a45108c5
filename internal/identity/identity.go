package identity

import (
	"strings"
)

// Setor é a área administrativa resolvida a partir do e-mail institucional.
type Setor string

const (
	SetorNenhum      Setor = ""
	SetorGeral       Setor = "Geral"
	SetorInformatica Setor = "Informática"
	SetorMecanica    Setor = "Mecânica"
	SetorFaculdade   Setor = "Faculdade"
)

// Perfil classifica identidades sem papel administrativo.
type Perfil string

const (
	PerfilAdmin        Perfil = "ADMIN"
	PerfilAluno        Perfil = "ALUNO"
	PerfilFuncionario  Perfil = "FUNCIONARIO"
	PerfilDesconhecido Perfil = ""
)

// adminPorEmail é a tabela literal de administradores conhecidos.
// Os domínios docente e sp são aliases históricos da mesma pessoa.
var adminPorEmail = map[string]Setor{
	"diretor@senai.br":             SetorGeral,
	"chile@senai.br":               SetorInformatica,
	"chile@docente.senai.br":       SetorInformatica,
	"jsilva@sp.senai.br":           SetorInformatica,
	"pino@senai.br":                SetorMecanica,
	"pino@docente.senai.br":        SetorMecanica,
	"carlos.pino@sp.senai.br":      SetorMecanica,
	"vieira@senai.br":              SetorFaculdade,
	"vieira@docente.senai.br":      SetorFaculdade,
	"alexandre.vieira@sp.senai.br": SetorFaculdade,
}

var dominiosFuncionario = []string{
	"@senai.br",
	"@docente.senai.br",
	"@sp.senai.br",
	"@portalsesisp.org.br",
}

const dominioAluno = "@aluno.senai.br"

// ResolverSetor mapeia um e-mail para o setor administrativo.
// E-mails fora da tabela resultam em SetorNenhum; cabe ao chamador
// negar acesso às áreas administrativas nesse caso.
func ResolverSetor(email string) Setor {
	setor, ok := adminPorEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return SetorNenhum
	}
	return setor
}

// Classificar deriva o perfil ordinário do e-mail por sufixo de domínio.
// A classificação Aluno/Funcionário serve apenas para os painéis comuns e
// não carrega permissão administrativa.
func Classificar(email string) Perfil {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return PerfilDesconhecido
	}

	if ResolverSetor(email) != SetorNenhum {
		return PerfilAdmin
	}

	if strings.HasSuffix(email, dominioAluno) {
		return PerfilAluno
	}

	for _, dominio := range dominiosFuncionario {
		if strings.HasSuffix(email, dominio) {
			return PerfilFuncionario
		}
	}

	return PerfilDesconhecido
}

// Destino devolve a rota do portal permitida para a identidade.
// Perfis desconhecidos não têm destino (false).
func Destino(email string) (string, bool) {
	switch ResolverSetor(email) {
	case SetorGeral:
		return "/admin", true
	case SetorInformatica:
		return "/admin/adm-info", true
	case SetorMecanica:
		return "/admin/adm-mec", true
	case SetorFaculdade:
		return "/admin/adm-fac", true
	}

	switch Classificar(email) {
	case PerfilAluno:
		return "/aluno", true
	case PerfilFuncionario:
		return "/funcionario", true
	}

	return "", false
}

// Roles monta os papéis de acesso emitidos no token para a identidade.
func Roles(email string) []string {
	switch Classificar(email) {
	case PerfilAdmin:
		return []string{string(PerfilAdmin)}
	case PerfilAluno:
		return []string{string(PerfilAluno)}
	case PerfilFuncionario:
		return []string{string(PerfilFuncionario)}
	}
	return nil
}
