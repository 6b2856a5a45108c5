package manifestacao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpmiddleware "github.com/ouvidoriasenai/api/internal/http/middleware"
	"github.com/ouvidoriasenai/api/internal/identity"
	"github.com/ouvidoriasenai/api/internal/storage"
)

const maxAnexoBytes = 5 << 20

// ServiceProvider define as operações consumidas pelos handlers.
type ServiceProvider interface {
	Criar(ctx context.Context, input CreateInput) (*Manifestacao, error)
	Obter(ctx context.Context, id uuid.UUID) (*Manifestacao, error)
	ListarPorContato(ctx context.Context, contato string) ([]Manifestacao, error)
	PainelAdmin(ctx context.Context, setorAdmin, filtroTipo string) (*Painel, error)
	Atualizar(ctx context.Context, id uuid.UUID, setorAdmin string, patch AtualizarInput) (*Manifestacao, error)
	CorrigirSetor(ctx context.Context, id uuid.UUID, setorAdmin, novoSetor string) (*Manifestacao, error)
	Excluir(ctx context.Context, id uuid.UUID, setorAdmin string) error
	AnexarArquivo(ctx context.Context, id uuid.UUID, setorAdmin string, nome, contentType string, corpo []byte) (*Manifestacao, error)
}

// Handler expõe os endpoints REST da ouvidoria.
type Handler struct {
	service ServiceProvider
}

func NewHandler(service ServiceProvider) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registra as rotas de submissão aberta.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/manifestacoes", h.criar)
	r.Post("/reclamacoes", h.criarComTipo(TipoReclamacao))
	r.Post("/denuncias", h.criarComTipo(TipoDenuncia))
	r.Post("/elogios", h.criarComTipo(TipoElogio))
	r.Post("/sugestoes", h.criarComTipo(TipoSugestao))
}

// RegisterUserRoutes registra as rotas autenticadas de aluno/funcionário.
func (h *Handler) RegisterUserRoutes(r chi.Router) {
	r.Get("/minhas-manifestacoes", h.minhas)
}

// RegisterAdminRoutes registra as rotas do painel administrativo.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Route("/manifestacoes", func(m chi.Router) {
		m.Get("/", h.painel)
		m.Get("/{id}", h.obter)
		m.Patch("/{id}", h.atualizar)
		m.Patch("/{id}/setor", h.corrigirSetor)
		m.Delete("/{id}", h.excluir)
		m.Post("/{id}/anexo", h.anexar)
	})
}

type criarPayload struct {
	Tipo      string  `json:"tipo"`
	Setor     string  `json:"setor"`
	Nome      string  `json:"nome"`
	Contato   string  `json:"contato"`
	Local     string  `json:"local"`
	Descricao string  `json:"descricao"`
	Anexo     *string `json:"anexo"`
	Anonima   bool    `json:"anonima"`
}

func (h *Handler) criar(w http.ResponseWriter, r *http.Request) {
	h.criarManifestacao(w, r, "")
}

func (h *Handler) criarComTipo(tipo string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.criarManifestacao(w, r, tipo)
	}
}

func (h *Handler) criarManifestacao(w http.ResponseWriter, r *http.Request, tipoFixo string) {
	var payload criarPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if tipoFixo != "" {
		payload.Tipo = tipoFixo
	}

	criada, err := h.service.Criar(r.Context(), CreateInput{
		Tipo:      payload.Tipo,
		Setor:     payload.Setor,
		Nome:      payload.Nome,
		Contato:   payload.Contato,
		Local:     payload.Local,
		Descricao: payload.Descricao,
		Anexo:     payload.Anexo,
		Anonima:   payload.Anonima,
	})
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"manifestacao": criada})
}

func (h *Handler) minhas(w http.ResponseWriter, r *http.Request) {
	email := httpmiddleware.GetEmail(r.Context())
	if email == "" {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	lista, err := h.service.ListarPorContato(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar manifestações", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"manifestacoes": lista,
		"resumo":        ResumirProprias(lista),
	})
}

func (h *Handler) painel(w http.ResponseWriter, r *http.Request) {
	setor, ok := setorDoAdmin(w, r)
	if !ok {
		return
	}

	painel, err := h.service.PainelAdmin(r.Context(), setor, r.URL.Query().Get("tipo"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar painel", nil)
		return
	}

	writeJSON(w, http.StatusOK, painel)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	setor, ok := setorDoAdmin(w, r)
	if !ok {
		return
	}

	painel, err := h.service.PainelAdmin(r.Context(), setor, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar painel", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"resumo": painel.Resumo})
}

func (h *Handler) obter(w http.ResponseWriter, r *http.Request) {
	setor, ok := setorDoAdmin(w, r)
	if !ok {
		return
	}

	id, err := idDaRota(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	m, err := h.service.Obter(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, setor)
		return
	}

	perm := Avaliar(*m, setor)

	// Opções de status alimentam o select do modal; tipo fora do conjunto
	// canônico não oferece nenhuma (fail closed).
	opcoes, err := StatusPermitidos(m.Tipo)
	if err != nil {
		opcoes = nil
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"manifestacao":      m,
		"permissao":         perm.String(),
		"pode_editar":       perm.PodeEditar(),
		"pode_excluir":      perm.PodeEditar(),
		"status_permitidos": opcoes,
	})
}

type atualizarPayload struct {
	Setor    *string `json:"setor"`
	Status   *string `json:"status"`
	Resposta *string `json:"resposta"`
}

func (h *Handler) atualizar(w http.ResponseWriter, r *http.Request) {
	setor, ok := setorDoAdmin(w, r)
	if !ok {
		return
	}

	id, err := idDaRota(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload atualizarPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	atualizada, err := h.service.Atualizar(r.Context(), id, setor, AtualizarInput{
		Setor:    payload.Setor,
		Status:   payload.Status,
		Resposta: payload.Resposta,
	})
	if err != nil {
		writeServiceError(w, err, setor)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"manifestacao": atualizada})
}

func (h *Handler) corrigirSetor(w http.ResponseWriter, r *http.Request) {
	setor, ok := setorDoAdmin(w, r)
	if !ok {
		return
	}

	id, err := idDaRota(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Setor string `json:"setor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	corrigida, err := h.service.CorrigirSetor(r.Context(), id, setor, payload.Setor)
	if err != nil {
		writeServiceError(w, err, setor)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"manifestacao": corrigida})
}

func (h *Handler) excluir(w http.ResponseWriter, r *http.Request) {
	setor, ok := setorDoAdmin(w, r)
	if !ok {
		return
	}

	id, err := idDaRota(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := h.service.Excluir(r.Context(), id, setor); err != nil {
		writeServiceError(w, err, setor)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"excluida": id})
}

func (h *Handler) anexar(w http.ResponseWriter, r *http.Request) {
	setor, ok := setorDoAdmin(w, r)
	if !ok {
		return
	}

	id, err := idDaRota(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := r.ParseMultipartForm(maxAnexoBytes); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "arquivo inválido ou grande demais", nil)
		return
	}

	arquivo, header, err := r.FormFile("arquivo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "campo arquivo obrigatório", nil)
		return
	}
	defer arquivo.Close()

	corpo, err := io.ReadAll(io.LimitReader(arquivo, maxAnexoBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "não foi possível ler o arquivo", nil)
		return
	}

	atualizada, err := h.service.AnexarArquivo(r.Context(), id, setor, header.Filename, header.Header.Get("Content-Type"), corpo)
	if err != nil {
		writeServiceError(w, err, setor)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"manifestacao": atualizada})
}

// setorDoAdmin resolve o setor administrativo a partir do e-mail da
// sessão, a cada requisição; decisões nunca ficam em cache entre loads.
func setorDoAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := httpmiddleware.GetEmail(r.Context())
	setor := identity.ResolverSetor(email)
	if setor == identity.SetorNenhum {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso restrito a administradores", nil)
		return "", false
	}
	return string(setor), true
}

func idDaRota(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
}

// writeServiceError classifica os erros sentinela do serviço em
// mensagens distintas por condição; nada vaza como erro cru.
func writeServiceError(w http.ResponseWriter, err error, setorAdmin string) {
	switch {
	case errors.Is(err, ErrPermissaoNegada):
		mensagem := "você só pode alterar manifestações da sua área ou manifestações Gerais"
		if setorAdmin != "" {
			mensagem = fmt.Sprintf("você só pode alterar manifestações da sua área (%s) ou manifestações Gerais", setorAdmin)
		}
		writeError(w, http.StatusForbidden, "PERMISSION", mensagem, nil)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "manifestação não encontrada; atualize a lista", nil)
	case errors.Is(err, storage.ErrTipoDeArquivo):
		writeError(w, http.StatusBadRequest, "VALIDATION", "anexo deve ser imagem (JPEG, PNG, WebP) ou PDF", nil)
	case errors.Is(err, ErrRespostaObrigatoria),
		errors.Is(err, ErrStatusInvalido),
		errors.Is(err, ErrTipoDesconhecido),
		errors.Is(err, ErrSetorInvalido),
		errors.Is(err, ErrContatoObrigatorio),
		errors.Is(err, ErrDescricaoObrigatoria),
		errors.Is(err, ErrLocalObrigatorio):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível concluir a operação", nil)
	}
}

type successEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

type errorEnvelope struct {
	Data  any        `json:"data"`
	Error *errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Data: nil,
		Error: &errorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
