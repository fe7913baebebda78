package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"health-vault-server/internal/apperrors"
	"health-vault-server/internal/model"
	"health-vault-server/internal/util"
)

// TokenTypeVaultAccess : отличает capability-токены хранилища от любых
// других подписанных токенов окружающей системы
const TokenTypeVaultAccess = "vault-access"

const tokenIssuer = "health-vault-server"

// issuedAtSkew : допуск на рассинхронизацию часов между выдачей и проверкой
// Действует только на iat; срок истечения — жёсткая граница без допуска
const issuedAtSkew = 30 * time.Second

// CapabilityClaims : содержимое capability-токена
// Токен нигде не хранится — восстанавливается только проверкой подписи
type CapabilityClaims struct {
	DocumentUUID string           `json:"document_uuid"`
	OwnerUUID    string           `json:"owner_uuid"`
	GranteeUUID  string           `json:"grantee_uuid"`
	Role         model.Role       `json:"role"`
	Permission   model.Permission `json:"permission"`
	TokenType    string           `json:"token_type"`
	jwt.RegisteredClaims
}

// CapabilityService : выдача и проверка capability-токенов
// Конструируется явно с ключом — никаких синглтонов, в тестах
// каждый экземпляр получает свой ключ и свои часы
type CapabilityService struct {
	secret []byte
	now    func() time.Time
}

func NewCapabilityService(secret []byte) *CapabilityService {
	return &CapabilityService{
		secret: secret,
		now:    time.Now,
	}
}

// Issue : выдаёт подписанный токен на (документ, получатель, роль, доступ)
func (service *CapabilityService) Issue(document *model.VaultDocument, ttl time.Duration) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(ttl)

	claims := CapabilityClaims{
		DocumentUUID: document.UUID,
		OwnerUUID:    document.OwnerUUID,
		GranteeUUID:  document.GranteeUUID,
		Role:         document.Role,
		Permission:   document.Permission,
		TokenType:    TokenTypeVaultAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    tokenIssuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := jwtToken.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, util.LogError("[CapabilityService] ошибка подписи токена", err)
	}

	return signed, expiresAt, nil
}

// Verify : проверяет подпись, тип токена, адресата и срок действия
// Claims возвращаются и при невалидном токене (если удалось разобрать) —
// журналу доступа нужен контекст документа даже для отказов
func (service *CapabilityService) Verify(tokenStr string, expectedGranteeUUID string) (*CapabilityClaims, error) {
	var claims = &CapabilityClaims{}

	jwtToken, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithTimeFunc(service.now))

	if err != nil || jwtToken.Valid == false {
		return claims, fmt.Errorf("[CapabilityService] подпись или срок действия не прошли проверку: %w", apperrors.ErrToken)
	}

	if claims.TokenType != TokenTypeVaultAccess {
		return claims, fmt.Errorf("[CapabilityService] неверный тип токена %q: %w", claims.TokenType, apperrors.ErrToken)
	}

	if claims.GranteeUUID == "" || claims.GranteeUUID != expectedGranteeUUID {
		return claims, fmt.Errorf("[CapabilityService] токен выдан другому получателю: %w", apperrors.ErrToken)
	}

	if claims.IssuedAt == nil || service.now().Add(issuedAtSkew).Before(claims.IssuedAt.Time) {
		return claims, fmt.Errorf("[CapabilityService] время выдачи токена в будущем: %w", apperrors.ErrToken)
	}

	return claims, nil
}
