package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ouvidoriasenai/api/internal/usuario"
)

type usuarioDiretorio struct {
	ID       string  `json:"id"`
	Nome     string  `json:"nome"`
	Email    string  `json:"email"`
	Tipo     string  `json:"tipo"`
	Curso    *string `json:"curso,omitempty"`
	Telefone *string `json:"telefone,omitempty"`
	CPF      *string `json:"cpf,omitempty"`
}

// ListUsuarios devolve o diretório de contas para inspeção administrativa.
func (h *Handler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	lista, err := h.usuarios.Listar(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar usuários", nil)
		return
	}

	saida := make([]usuarioDiretorio, 0, len(lista))
	for _, u := range lista {
		saida = append(saida, usuarioDiretorio{
			ID:       u.ID.String(),
			Nome:     u.Nome,
			Email:    u.Email,
			Tipo:     u.Tipo(),
			Curso:    u.Curso,
			Telefone: u.Telefone,
			CPF:      u.CPF,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{"usuarios": saida})
}

// DeleteUsuario remove uma conta do diretório.
func (h *Handler) DeleteUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := h.usuarios.Excluir(r.Context(), id); err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "usuário não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível remover usuário", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "removido"})
}
