package auth

import "fmt"

// GenerateResetToken cria token opaco de redefinição de senha e seu hash
// persistível, no mesmo formato dos tokens de refresh.
func GenerateResetToken() (raw string, hashed string, err error) {
	return GenerateRefreshToken()
}

// ResetRedisKey monta chave para guardar o token de redefinição.
func ResetRedisKey(audience, hash string) string {
	return fmt.Sprintf("reset:%s:%s", audience, hash)
}
