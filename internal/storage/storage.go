package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrTipoDeArquivo indica content-type fora da lista aceita para anexos.
var ErrTipoDeArquivo = errors.New("storage: tipo de arquivo não aceito")

// UploadInput representa uma operação de upload simples.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult descreve o artefato persistido.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader define comportamento básico para armazenar blobs.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// Anexos aceitos: imagens e PDF enviados junto às manifestações.
var contentTypesPermitidos = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// ValidarContentType garante que o anexo é de um tipo aceito.
func ValidarContentType(contentType string) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if _, ok := contentTypesPermitidos[ct]; !ok {
		return ErrTipoDeArquivo
	}
	return nil
}

// AnexoKey monta a chave do objeto para o anexo de uma manifestação,
// descartando qualquer caminho embutido no nome do arquivo.
func AnexoKey(manifestacaoID, nomeArquivo string) string {
	nome := path.Base(strings.ReplaceAll(strings.TrimSpace(nomeArquivo), "\\", "/"))
	if nome == "" || nome == "." || nome == "/" {
		nome = "anexo"
	}
	return "anexos/" + manifestacaoID + "/" + nome
}
