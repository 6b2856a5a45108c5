package manifestacao

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ouvidoriasenai/api/internal/storage"
)

const (
	cacheKeyLista = "manifestacoes:lista"
	cacheTTL      = 30 * time.Second
)

// Store define o acesso a dados exigido pelo serviço.
type Store interface {
	Create(ctx context.Context, input CreateInput) (*Manifestacao, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Manifestacao, error)
	List(ctx context.Context, filter Filter) ([]Manifestacao, error)
	Update(ctx context.Context, input UpdateInput) (*Manifestacao, error)
	SetAnexo(ctx context.Context, id uuid.UUID, anexo string) (*Manifestacao, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service reúne as regras de negócio da ouvidoria. Toda mutação passa
// pelo motor de permissão contra o registro recarregado por id; decisões
// computadas antes, sobre dados possivelmente velhos, não valem.
type Service struct {
	repo    Store
	cache   *redis.Client
	uploads storage.Uploader
}

// NewService cria uma nova instância do serviço.
func NewService(repo Store, cache *redis.Client, uploads storage.Uploader) *Service {
	if uploads == nil {
		uploads = storage.NoopUploader{}
	}
	return &Service{repo: repo, cache: cache, uploads: uploads}
}

// AtualizarInput é o patch aceito pela operação de salvar.
type AtualizarInput struct {
	Setor    *string
	Status   *string
	Resposta *string
}

func (p AtualizarInput) somenteSetor() bool {
	return p.Setor != nil && p.Status == nil && p.Resposta == nil
}

// ItemPainel é uma linha do painel com a decisão de permissão embutida,
// para o front renderizar "Gerenciar" versus "Visualizar" sem refazer a
// regra.
type ItemPainel struct {
	Manifestacao
	SetorExibido string `json:"setor_exibido"`
	Permissao    string `json:"permissao"`
	PodeEditar   bool   `json:"pode_editar"`
	PodeExcluir  bool   `json:"pode_excluir"`
}

// Painel agrega cards, linhas e opções de status do painel administrativo.
type Painel struct {
	Resumo Resumo       `json:"resumo"`
	Itens  []ItemPainel `json:"itens"`
}

// Criar registra uma submissão pública. Tipo e setor são canonicalizados;
// denúncias podem ser anônimas, os demais tipos exigem contato.
func (s *Service) Criar(ctx context.Context, input CreateInput) (*Manifestacao, error) {
	tipo, ok := CanonicoTipo(input.Tipo)
	if !ok {
		return nil, ErrTipoDesconhecido
	}
	input.Tipo = tipo

	if canon, ok := CanonicoSetor(input.Setor); ok {
		input.Setor = canon
	} else {
		input.Setor = SetorGeral
	}

	if strings.TrimSpace(input.Descricao) == "" {
		return nil, ErrDescricaoObrigatoria
	}
	if strings.TrimSpace(input.Local) == "" {
		return nil, ErrLocalObrigatorio
	}
	if strings.TrimSpace(input.Contato) == "" && !input.Anonima {
		return nil, ErrContatoObrigatorio
	}

	criada, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.invalidarCache(ctx)
	return criada, nil
}

// Obter carrega uma manifestação por id.
func (s *Service) Obter(ctx context.Context, id uuid.UUID) (*Manifestacao, error) {
	return s.repo.GetByID(ctx, id)
}

// Listar devolve a lista completa, com cache curto para aliviar o banco
// nos recarregamentos de painel.
func (s *Service) Listar(ctx context.Context) ([]Manifestacao, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKeyLista).Bytes(); err == nil {
			var lista []Manifestacao
			if json.Unmarshal(data, &lista) == nil {
				return lista, nil
			}
		}
	}

	lista, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(lista); err == nil {
			if err := s.cache.Set(ctx, cacheKeyLista, payload, cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("cache de manifestações indisponível")
			}
		}
	}

	return lista, nil
}

// ListarPorContato devolve as submissões do próprio usuário.
func (s *Service) ListarPorContato(ctx context.Context, contato string) ([]Manifestacao, error) {
	contato = strings.TrimSpace(contato)
	if contato == "" {
		return nil, ErrContatoObrigatorio
	}
	return s.repo.List(ctx, Filter{Contato: contato})
}

// PainelAdmin monta o painel do administrador: contadores não filtrados,
// linhas filtradas por tipo e a decisão de permissão por linha.
func (s *Service) PainelAdmin(ctx context.Context, setorAdmin, filtroTipo string) (*Painel, error) {
	lista, err := s.Listar(ctx)
	if err != nil {
		return nil, err
	}

	painel := &Painel{Resumo: Resumir(lista, setorAdmin)}

	for _, m := range FiltrarPorTipo(lista, filtroTipo) {
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

// Atualizar aplica um patch de edição completa (status, resposta e/ou
// setor). Patch tocando apenas o setor é delegado à correção de setor,
// o nível parcial de permissão.
func (s *Service) Atualizar(ctx context.Context, id uuid.UUID, setorAdmin string, patch AtualizarInput) (*Manifestacao, error) {
	if patch.somenteSetor() {
		return s.CorrigirSetor(ctx, id, setorAdmin, *patch.Setor)
	}

	atual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Avaliar(*atual, setorAdmin).PodeEditar() {
		return nil, ErrPermissaoNegada
	}

	update := UpdateInput{ID: id}

	if patch.Setor != nil {
		canon, ok := CanonicoSetor(*patch.Setor)
		if !ok {
			return nil, ErrSetorInvalido
		}
		update.Setor = &canon
	}

	if patch.Status != nil {
		respostaEfetiva := ""
		if atual.RespostaAdmin != nil {
			respostaEfetiva = *atual.RespostaAdmin
		}
		if patch.Resposta != nil {
			respostaEfetiva = *patch.Resposta
		}

		if err := ValidarTransicao(atual.Tipo, *patch.Status, respostaEfetiva); err != nil {
			return nil, err
		}

		canon, err := CanonicoStatus(atual.Tipo, *patch.Status)
		if err != nil {
			return nil, err
		}
		update.Status = &canon
	}

	if patch.Resposta != nil {
		resposta := strings.TrimSpace(*patch.Resposta)
		update.RespostaAdmin = &resposta
		agora := time.Now().UTC()
		update.DataResposta = &agora
	}

	atualizada, err := s.repo.Update(ctx, update)
	if err != nil {
		return nil, err
	}

	s.invalidarCache(ctx)
	return atualizada, nil
}

// CorrigirSetor altera apenas o campo setor de um registro mal roteado.
// Disponível a qualquer admin de setor; nenhum outro campo passa.
func (s *Service) CorrigirSetor(ctx context.Context, id uuid.UUID, setorAdmin, novoSetor string) (*Manifestacao, error) {
	canon, ok := CanonicoSetor(novoSetor)
	if !ok {
		return nil, ErrSetorInvalido
	}

	atual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Avaliar(*atual, setorAdmin).PodeCorrigirSetor() {
		return nil, ErrPermissaoNegada
	}

	atualizada, err := s.repo.Update(ctx, UpdateInput{ID: id, Setor: &canon})
	if err != nil {
		return nil, err
	}

	s.invalidarCache(ctx)
	return atualizada, nil
}

// Excluir remove a manifestação; mesma pré-condição da edição completa.
func (s *Service) Excluir(ctx context.Context, id uuid.UUID, setorAdmin string) error {
	atual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !Avaliar(*atual, setorAdmin).PodeEditar() {
		return ErrPermissaoNegada
	}

	if err := s.repo.Delete(ctx, atual.ID); err != nil {
		return err
	}

	s.invalidarCache(ctx)
	return nil
}

// AnexarArquivo sobe o anexo para o storage e grava a URL no registro.
func (s *Service) AnexarArquivo(ctx context.Context, id uuid.UUID, setorAdmin string, nome, contentType string, corpo []byte) (*Manifestacao, error) {
	atual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Avaliar(*atual, setorAdmin).PodeEditar() {
		return nil, ErrPermissaoNegada
	}

	if err := storage.ValidarContentType(contentType); err != nil {
		return nil, err
	}

	resultado, err := s.uploads.Upload(ctx, storage.UploadInput{
		Key:         storage.AnexoKey(atual.ID.String(), nome),
		Body:        corpo,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	atualizada, err := s.repo.SetAnexo(ctx, atual.ID, resultado.URL)
	if err != nil {
		return nil, err
	}

	s.invalidarCache(ctx)
	return atualizada, nil
}

func (s *Service) invalidarCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKeyLista).Err(); err != nil {
		log.Warn().Err(err).Msg("falha ao invalidar cache de manifestações")
	}
}
