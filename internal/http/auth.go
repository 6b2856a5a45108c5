package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	httpmiddleware "github.com/ouvidoriasenai/api/internal/http/middleware"
	"github.com/ouvidoriasenai/api/internal/service"
	"github.com/ouvidoriasenai/api/internal/usuario"
)

const refreshCookieName = "ouvidoria_refresh"

// Login realiza autenticação por e-mail e senha.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.Senha) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "email e senha são obrigatórios", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Email, payload.Senha)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Registro cadastra aluno ou funcionário com e-mail institucional.
func (h *Handler) Registro(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Nome     string  `json:"nome"`
		Email    string  `json:"email"`
		Senha    string  `json:"senha"`
		Curso    *string `json:"curso"`
		Telefone *string `json:"telefone"`
		CPF      *string `json:"cpf"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	criado, err := h.usuarios.Registrar(r.Context(), usuario.CreateInput{
		Nome:     payload.Nome,
		Email:    payload.Email,
		Senha:    payload.Senha,
		Curso:    payload.Curso,
		Telefone: payload.Telefone,
		CPF:      payload.CPF,
	})
	if err != nil {
		if errors.Is(err, usuario.ErrEmailEmUso) {
			WriteError(w, http.StatusConflict, "VALIDATION", err.Error(), nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"usuario": criado})
}

// RecuperarSenha emite token de redefinição para o e-mail informado.
// O portal dispara o e-mail no cliente, então o token volta na resposta.
func (h *Handler) RecuperarSenha(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if strings.TrimSpace(payload.Email) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "email é obrigatório", nil)
		return
	}

	token, err := h.authService.SolicitarReset(r.Context(), payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, usuario.ErrNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "e-mail não cadastrado", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
		default:
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao gerar token", nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"reset_token": token})
}

// RedefinirSenha aplica a senha nova mediante token de redefinição.
func (h *Handler) RedefinirSenha(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token     string `json:"token"`
		NovaSenha string `json:"nova_senha"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.authService.RedefinirSenha(r.Context(), payload.Token, payload.NovaSenha); err != nil {
		switch {
		case errors.Is(err, service.ErrResetInvalid):
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, usuario.ErrNotFound):
			WriteError(w, http.StatusUnauthorized, "AUTH", "token de redefinição inválido", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "senha_redefinida"})
}

// Refresh rotaciona token de acesso.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := getRefreshFromRequest(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "refresh ausente", nil)
		return
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalid) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "refresh inválido", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao renovar sessão", nil)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Logout revoga refresh token atual.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := getRefreshFromRequest(r); err == nil {
		_ = h.authService.Logout(r.Context(), token)
	}

	h.clearRefreshCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me retorna perfil, papéis e destino do usuário autenticado.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subjectStr := httpmiddleware.GetSubject(r.Context())
	subject, err := uuid.Parse(subjectStr)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject inválido", nil)
		return
	}

	profile, roles, destino, err := h.authService.GetMe(r.Context(), subject)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar perfil", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":    profile,
		"roles":   roles,
		"destino": destino,
	})
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
	case errors.Is(err, service.ErrAccountDisabled):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, service.ErrDominioDesconhecido):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao autenticar", nil)
	}
}

func (h *Handler) writeLoginSuccess(w http.ResponseWriter, result *service.LoginResult) {
	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiry)

	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": result.AccessToken,
		"user":         result.Profile,
		"roles":        result.Roles,
		"destino":      result.Destino,
	})
}

func getRefreshFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errors.New("refresh ausente")
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}
