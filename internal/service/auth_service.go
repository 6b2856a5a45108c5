package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ouvidoriasenai/api/internal/auth"
	"github.com/ouvidoriasenai/api/internal/identity"
	"github.com/ouvidoriasenai/api/internal/usuario"
	"github.com/ouvidoriasenai/api/internal/util"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrAccountDisabled indica conta desativada.
	ErrAccountDisabled = errors.New("conta desativada")
	// ErrRefreshInvalid indica refresh token inválido ou expirado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
	// ErrResetInvalid indica token de redefinição inválido ou expirado.
	ErrResetInvalid = errors.New("token de redefinição inválido")
	// ErrDominioDesconhecido indica e-mail fora dos domínios institucionais.
	ErrDominioDesconhecido = errors.New("domínio de e-mail não reconhecido")
)

type userRepository interface {
	GetByEmail(ctx context.Context, email string) (*usuario.Usuario, error)
	GetByID(ctx context.Context, id uuid.UUID) (*usuario.Usuario, error)
	UpdateSenhaHash(ctx context.Context, id uuid.UUID, senhaHash string) error
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra regras de autenticação e sessões.
// Tokens de refresh vivem apenas no Redis (hash -> subject, com TTL).
type AuthService struct {
	repo       userRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewAuthService cria novo serviço.
func NewAuthService(r userRepository, redisClient *redis.Client, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{repo: r, redis: redisClient, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// Profile descreve a conta autenticada junto com o papel derivado.
type Profile struct {
	ID    string  `json:"id"`
	Nome  string  `json:"nome"`
	Email string  `json:"email"`
	Tipo  string  `json:"tipo"`
	Setor string  `json:"setor,omitempty"`
	Curso *string `json:"curso,omitempty"`
}

// LoginResult representa retorno padrão de autenticações.
type LoginResult struct {
	AccessToken   string
	RefreshToken  string
	Subject       uuid.UUID
	Roles         []string
	Profile       *Profile
	Destino       string
	RefreshExpiry time.Time
}

// Login autentica por e-mail e senha. O papel e o destino de
// redirecionamento saem do resolvedor de identidade, nunca do cadastro.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			log.Warn().Msg("login: usuário não encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, user.SenhaHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: verificação de senha falhou")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Msg("login: senha inválida")
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) issueSession(ctx context.Context, user *usuario.Usuario) (*LoginResult, error) {
	if !user.Ativo {
		return nil, ErrAccountDisabled
	}

	destino, ok := identity.Destino(user.Email)
	if !ok {
		return nil, ErrDominioDesconhecido
	}
	roles := identity.Roles(user.Email)

	token, _, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Email, roles)
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expires := util.Now().Add(s.refreshTTL)
	if err := s.persistRefresh(ctx, user.ID, refreshHash, expires); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:   token,
		RefreshToken:  rawRefresh,
		Subject:       user.ID,
		Roles:         roles,
		Profile:       buildProfile(user),
		Destino:       destino,
		RefreshExpiry: expires,
	}, nil
}

// Refresh troca refresh token por novos tokens, revogando o anterior.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	if rawToken == "" {
		return nil, ErrRefreshInvalid
	}

	hash := auth.HashRefreshToken(rawToken)
	key := auth.RefreshRedisKey("ouvidoria", hash)

	subjectStr, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrRefreshInvalid
	}
	if err != nil {
		return nil, err
	}

	subject, err := uuid.Parse(subjectStr)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	user, err := s.repo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Del(ctx, key).Err(); err != nil && err != redis.Nil {
		return nil, err
	}

	return result, nil
}

// Logout revoga refresh token atual.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	hash := auth.HashRefreshToken(rawToken)
	key := auth.RefreshRedisKey("ouvidoria", hash)
	if err := s.redis.Del(ctx, key).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// Tokens de redefinição expiram rápido: o fluxo todo acontece numa
// única visita do usuário ao portal.
const resetTTL = 30 * time.Minute

// SolicitarReset emite um token de redefinição para a conta do e-mail.
// O token volta ao chamador porque o disparo do e-mail acontece no
// cliente, fora desta API.
func (s *AuthService) SolicitarReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if !user.Ativo {
		return "", ErrAccountDisabled
	}

	raw, hash, err := auth.GenerateResetToken()
	if err != nil {
		return "", err
	}

	key := auth.ResetRedisKey("ouvidoria", hash)
	if err := s.redis.Set(ctx, key, user.ID.String(), resetTTL).Err(); err != nil {
		return "", err
	}

	return raw, nil
}

// RedefinirSenha troca a senha da conta dona do token e o consome.
// Qualquer token que não resolva para uma conta vale como inválido.
func (s *AuthService) RedefinirSenha(ctx context.Context, rawToken, novaSenha string) error {
	if strings.TrimSpace(rawToken) == "" {
		return ErrResetInvalid
	}
	if err := util.ValidatePassword(novaSenha); err != nil {
		return err
	}

	key := auth.ResetRedisKey("ouvidoria", auth.HashRefreshToken(rawToken))
	subjectStr, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrResetInvalid
	}
	if err != nil {
		return err
	}

	subject, err := uuid.Parse(subjectStr)
	if err != nil {
		return ErrResetInvalid
	}

	senhaHash, err := auth.Hash(novaSenha)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateSenhaHash(ctx, subject, senhaHash); err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			return ErrResetInvalid
		}
		return err
	}

	if err := s.redis.Del(ctx, key).Err(); err != nil && err != redis.Nil {
		return err
	}

	log.Info().Msg("senha redefinida via token de recuperação")
	return nil
}

// GetMe retorna perfil, papéis e destino para o subject autenticado.
func (s *AuthService) GetMe(ctx context.Context, subject uuid.UUID) (*Profile, []string, string, error) {
	user, err := s.repo.GetByID(ctx, subject)
	if err != nil {
		return nil, nil, "", err
	}

	destino, _ := identity.Destino(user.Email)
	return buildProfile(user), identity.Roles(user.Email), destino, nil
}

func (s *AuthService) persistRefresh(ctx context.Context, subject uuid.UUID, hash string, expires time.Time) error {
	key := auth.RefreshRedisKey("ouvidoria", hash)
	return s.redis.Set(ctx, key, subject.String(), time.Until(expires)).Err()
}

func buildProfile(user *usuario.Usuario) *Profile {
	p := &Profile{
		ID:    user.ID.String(),
		Nome:  user.Nome,
		Email: user.Email,
		Tipo:  user.Tipo(),
		Curso: user.Curso,
	}
	if setor := identity.ResolverSetor(user.Email); setor != identity.SetorNenhum {
		p.Setor = string(setor)
	}
	return p
}
