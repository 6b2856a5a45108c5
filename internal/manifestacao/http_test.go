package manifestacao

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpmiddleware "github.com/ouvidoriasenai/api/internal/http/middleware"
)

type stubService struct {
	manifestacoes map[uuid.UUID]*Manifestacao
	criadas       []CreateInput
	atualizadas   []AtualizarInput
	excluidas     []uuid.UUID
}

func newStubService() *stubService {
	return &stubService{manifestacoes: make(map[uuid.UUID]*Manifestacao)}
}

func (s *stubService) Criar(ctx context.Context, input CreateInput) (*Manifestacao, error) {
	s.criadas = append(s.criadas, input)
	tipo, ok := CanonicoTipo(input.Tipo)
	if !ok {
		return nil, ErrTipoDesconhecido
	}
	setor, ok := CanonicoSetor(input.Setor)
	if !ok {
		setor = SetorGeral
	}
	m := &Manifestacao{
		ID:        uuid.New(),
		Tipo:      tipo,
		Setor:     setor,
		Status:    StatusPendente,
		Nome:      input.Nome,
		Contato:   input.Contato,
		Local:     input.Local,
		Descricao: input.Descricao,
	}
	s.manifestacoes[m.ID] = m
	return m, nil
}

func (s *stubService) Obter(ctx context.Context, id uuid.UUID) (*Manifestacao, error) {
	m, ok := s.manifestacoes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *stubService) ListarPorContato(ctx context.Context, contato string) ([]Manifestacao, error) {
	var lista []Manifestacao
	for _, m := range s.manifestacoes {
		if m.Contato == contato {
			lista = append(lista, *m)
		}
	}
	return lista, nil
}

func (s *stubService) PainelAdmin(ctx context.Context, setorAdmin, filtroTipo string) (*Painel, error) {
	var lista []Manifestacao
	for _, m := range s.manifestacoes {
		lista = append(lista, *m)
	}
	lista = FiltrarPorTipo(lista, filtroTipo)
	painel := &Painel{Resumo: Resumir(lista, setorAdmin)}
	for _, m := range lista {
		perm := Avaliar(m, setorAdmin)
		painel.Itens = append(painel.Itens, ItemPainel{
			Manifestacao: m,
			SetorExibido: m.SetorExibicao(),
			Permissao:    perm.String(),
			PodeEditar:   perm.PodeEditar(),
			PodeExcluir:  perm.PodeEditar(),
		})
	}
	return painel, nil
}

func (s *stubService) Atualizar(ctx context.Context, id uuid.UUID, setorAdmin string, patch AtualizarInput) (*Manifestacao, error) {
	m, ok := s.manifestacoes[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !Avaliar(*m, setorAdmin).PodeEditar() {
		return nil, ErrPermissaoNegada
	}
	s.atualizadas = append(s.atualizadas, patch)
	if patch.Status != nil {
		resposta := ""
		if patch.Resposta != nil {
			resposta = *patch.Resposta
		}
		if err := ValidarTransicao(m.Tipo, *patch.Status, resposta); err != nil {
			return nil, err
		}
		m.Status = *patch.Status
	}
	if patch.Resposta != nil {
		m.RespostaAdmin = patch.Resposta
	}
	return m, nil
}

func (s *stubService) CorrigirSetor(ctx context.Context, id uuid.UUID, setorAdmin, novoSetor string) (*Manifestacao, error) {
	m, ok := s.manifestacoes[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !Avaliar(*m, setorAdmin).PodeCorrigirSetor() {
		return nil, ErrPermissaoNegada
	}
	setor, ok := CanonicoSetor(novoSetor)
	if !ok {
		return nil, ErrSetorInvalido
	}
	m.Setor = setor
	return m, nil
}

func (s *stubService) Excluir(ctx context.Context, id uuid.UUID, setorAdmin string) error {
	m, ok := s.manifestacoes[id]
	if !ok {
		return ErrNotFound
	}
	if !Avaliar(*m, setorAdmin).PodeEditar() {
		return ErrPermissaoNegada
	}
	s.excluidas = append(s.excluidas, id)
	delete(s.manifestacoes, id)
	return nil
}

func (s *stubService) AnexarArquivo(ctx context.Context, id uuid.UUID, setorAdmin string, nome, contentType string, corpo []byte) (*Manifestacao, error) {
	m, ok := s.manifestacoes[id]
	if !ok {
		return nil, ErrNotFound
	}
	url := "https://arquivos.exemplo/" + nome
	m.Anexo = &url
	return m, nil
}

func newTestRouter(svc ServiceProvider, email string) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)

	r.Group(func(priv chi.Router) {
		priv.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := httpmiddleware.WithIdentity(req.Context(), uuid.NewString(), email, nil)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		h.RegisterUserRoutes(priv)
		priv.Route("/admin", func(admin chi.Router) {
			h.RegisterAdminRoutes(admin)
		})
	})

	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data  map[string]any `json:"data"`
		Error map[string]any `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	return envelope.Data
}

func TestCriarManifestacaoPublica(t *testing.T) {
	svc := newStubService()
	router := newTestRouter(svc, "")

	body, _ := json.Marshal(map[string]any{
		"tipo":      "reclamacao",
		"setor":     "informatica",
		"nome":      "Ana",
		"contato":   "ana@aluno.senai.br",
		"local":     "Lab 3",
		"descricao": "Computador sem rede",
	})

	req := httptest.NewRequest(http.MethodPost, "/manifestacoes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	if len(svc.criadas) != 1 {
		t.Fatalf("criadas = %d", len(svc.criadas))
	}
}

func TestRotaTipadaFixaOTipo(t *testing.T) {
	svc := newStubService()
	router := newTestRouter(svc, "")

	body, _ := json.Marshal(map[string]any{
		"tipo":      "Elogio",
		"setor":     "Geral",
		"nome":      "Bia",
		"contato":   "bia@senai.br",
		"local":     "Secretaria",
		"descricao": "Procuro elogiar o atendimento",
	})

	req := httptest.NewRequest(http.MethodPost, "/denuncias", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	if got := svc.criadas[0].Tipo; got != TipoDenuncia {
		t.Fatalf("tipo = %q, esperado %q", got, TipoDenuncia)
	}
}

func TestPainelExigeSetorAdministrativo(t *testing.T) {
	svc := newStubService()
	router := newTestRouter(svc, "fulano@aluno.senai.br")

	req := httptest.NewRequest(http.MethodGet, "/admin/manifestacoes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperado 403", rec.Code)
	}
	errBody := decodeEnvelope(t, rec)
	if errBody["code"] != "FORBIDDEN" {
		t.Fatalf("code = %v", errBody["code"])
	}
}

func TestAtualizarForaDoSetorRetornaPermission(t *testing.T) {
	svc := newStubService()
	m := &Manifestacao{ID: uuid.New(), Tipo: TipoSugestao, Setor: SetorFaculdade, Status: StatusPendente}
	svc.manifestacoes[m.ID] = m

	// chile@senai.br administra Informática
	router := newTestRouter(svc, "chile@senai.br")

	body, _ := json.Marshal(map[string]any{"status": StatusEmAnalise, "resposta": "ok"})
	req := httptest.NewRequest(http.MethodPatch, "/admin/manifestacoes/"+m.ID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	errBody := decodeEnvelope(t, rec)
	if errBody["code"] != "PERMISSION" {
		t.Fatalf("code = %v, esperado PERMISSION", errBody["code"])
	}
}

func TestAtualizarDentroDoSetor(t *testing.T) {
	svc := newStubService()
	m := &Manifestacao{ID: uuid.New(), Tipo: TipoReclamacao, Setor: SetorInformatica, Status: StatusPendente}
	svc.manifestacoes[m.ID] = m

	router := newTestRouter(svc, "chile@senai.br")

	body, _ := json.Marshal(map[string]any{"status": StatusEmAndamento, "resposta": "técnico acionado"})
	req := httptest.NewRequest(http.MethodPatch, "/admin/manifestacoes/"+m.ID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	if m.Status != StatusEmAndamento {
		t.Fatalf("status gravado = %q", m.Status)
	}
}

func TestAtualizarSemRespostaRetornaValidation(t *testing.T) {
	svc := newStubService()
	m := &Manifestacao{ID: uuid.New(), Tipo: TipoReclamacao, Setor: SetorGeral, Status: StatusPendente}
	svc.manifestacoes[m.ID] = m

	router := newTestRouter(svc, "diretor@senai.br")

	body, _ := json.Marshal(map[string]any{"status": StatusResolvida})
	req := httptest.NewRequest(http.MethodPatch, "/admin/manifestacoes/"+m.ID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	errBody := decodeEnvelope(t, rec)
	if errBody["code"] != "VALIDATION" {
		t.Fatalf("code = %v", errBody["code"])
	}
}

func TestExcluirInexistenteRetornaNotFound(t *testing.T) {
	svc := newStubService()
	router := newTestRouter(svc, "diretor@senai.br")

	req := httptest.NewRequest(http.MethodDelete, "/admin/manifestacoes/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCorrigirSetorViaRota(t *testing.T) {
	svc := newStubService()
	m := &Manifestacao{ID: uuid.New(), Tipo: TipoSugestao, Setor: SetorFaculdade, Status: StatusPendente}
	svc.manifestacoes[m.ID] = m

	router := newTestRouter(svc, "chile@senai.br")

	body, _ := json.Marshal(map[string]any{"setor": "informatica"})
	req := httptest.NewRequest(http.MethodPatch, "/admin/manifestacoes/"+m.ID.String()+"/setor", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	if m.Setor != SetorInformatica {
		t.Fatalf("setor = %q", m.Setor)
	}
}

func TestMinhasManifestacoes(t *testing.T) {
	svc := newStubService()
	m := &Manifestacao{ID: uuid.New(), Tipo: TipoElogio, Setor: SetorGeral, Status: StatusPendente, Contato: "ana@aluno.senai.br"}
	svc.manifestacoes[m.ID] = m
	outra := &Manifestacao{ID: uuid.New(), Tipo: TipoElogio, Setor: SetorGeral, Status: StatusPendente, Contato: "outro@aluno.senai.br"}
	svc.manifestacoes[outra.ID] = outra

	router := newTestRouter(svc, "ana@aluno.senai.br")

	req := httptest.NewRequest(http.MethodGet, "/minhas-manifestacoes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)
	lista, ok := data["manifestacoes"].([]any)
	if !ok || len(lista) != 1 {
		t.Fatalf("manifestacoes = %v", data["manifestacoes"])
	}
}

func TestObterIncluiStatusPermitidos(t *testing.T) {
	svc := newStubService()
	m := &Manifestacao{ID: uuid.New(), Tipo: TipoSugestao, Setor: SetorGeral, Status: StatusPendente}
	svc.manifestacoes[m.ID] = m

	router := newTestRouter(svc, "diretor@senai.br")

	req := httptest.NewRequest(http.MethodGet, "/admin/manifestacoes/"+m.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)
	opcoes, ok := data["status_permitidos"].([]any)
	if !ok || len(opcoes) != 5 {
		t.Fatalf("status_permitidos = %v", data["status_permitidos"])
	}
	if data["pode_editar"] != true {
		t.Fatalf("pode_editar = %v", data["pode_editar"])
	}
}
