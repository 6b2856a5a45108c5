package storage

import "testing"

func TestAnexoKey(t *testing.T) {
	casos := []struct {
		nome     string
		arquivo  string
		esperado string
	}{
		{"simples", "foto.png", "anexos/abc/foto.png"},
		{"com caminho unix", "../../etc/passwd", "anexos/abc/passwd"},
		{"com caminho windows", `C:\temp\laudo.pdf`, "anexos/abc/laudo.pdf"},
		{"vazio", "", "anexos/abc/anexo"},
		{"espacos", "  nota fiscal.jpg  ", "anexos/abc/nota fiscal.jpg"},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			if got := AnexoKey("abc", c.arquivo); got != c.esperado {
				t.Fatalf("AnexoKey(%q) = %q, esperado %q", c.arquivo, got, c.esperado)
			}
		})
	}
}

func TestValidarContentType(t *testing.T) {
	aceitos := []string{"image/png", "IMAGE/JPEG", "application/pdf", "image/webp; charset=binary"}
	for _, ct := range aceitos {
		if err := ValidarContentType(ct); err != nil {
			t.Fatalf("ValidarContentType(%q) = %v", ct, err)
		}
	}

	recusados := []string{"", "text/html", "application/zip", "video/mp4"}
	for _, ct := range recusados {
		if err := ValidarContentType(ct); err == nil {
			t.Fatalf("ValidarContentType(%q) aceitou tipo proibido", ct)
		}
	}
}
