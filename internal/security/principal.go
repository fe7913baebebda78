package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"health-vault-server/internal/util"
)

type contextKey string

const (
	PrincipalContextKey contextKey = "principal"
)

// PrincipalClaims : аутентифицированный принципал окружающей системы
// Регистрация и сессии пользователей — вне хранилища; сюда приходит
// уже подписанный внешним слоем токен с UUID пациента или клинициста
type PrincipalClaims struct {
	UserUUID string `json:"user_uuid"`
	jwt.RegisteredClaims
}

// ValidatePrincipal : проверяет подпись токена принципала
func ValidatePrincipal(jwtTokenStr string, secretKey []byte) (*PrincipalClaims, error) {
	var claims = &PrincipalClaims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil || jwtToken.Valid == false {
		return nil, util.LogError("невалидный токен принципала", err)
	}

	if claims.UserUUID == "" {
		return nil, fmt.Errorf("токен принципала без user_uuid")
	}

	return claims, nil
}

// PrincipalMiddleware : кладёт аутентифицированного принципала в контекст запроса
func PrincipalMiddleware(secretKey []byte) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authorizationHeader := request.Header.Get("Authorization")
			if !strings.HasPrefix(authorizationHeader, "Bearer ") {
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authorizationHeader, "Bearer ")

			claims, err := ValidatePrincipal(token, secretKey)
			if err != nil {
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}

			req := request.WithContext(context.WithValue(request.Context(), PrincipalContextKey, claims))
			next.ServeHTTP(writer, req)
		})
	}
}

func GetPrincipalFromContext(ctx context.Context) (*PrincipalClaims, error) {
	claims, ok := ctx.Value(PrincipalContextKey).(*PrincipalClaims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
