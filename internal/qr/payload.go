package qr

import (
	"encoding/json"
	"fmt"
	"time"

	"health-vault-server/internal/apperrors"
	"health-vault-server/internal/security"
	"health-vault-server/internal/util"
)

// Конверт рассчитан на кодирование в сканируемый QR-код:
// компактный JSON с токеном, меткой времени и версией схемы
const (
	PayloadVersion = "1.0"
	PayloadType    = security.TokenTypeVaultAccess
)

// Payload : транспортный конверт capability-токена
type Payload struct {
	Token     string `json:"token"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
	Type      string `json:"type"`
}

// Wrap : упаковывает подписанный токен в конверт для QR-кода
func Wrap(token string) (string, error) {
	payload := Payload{
		Token:     token,
		Timestamp: time.Now().UnixMilli(),
		Version:   PayloadVersion,
		Type:      PayloadType,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", util.LogError("[PayloadCodec] ошибка сериализации конверта", err)
	}

	return string(data), nil
}

// Unwrap : разбирает конверт и проверяет схему и тип
// до передачи токена на криптографическую проверку
func Unwrap(raw string) (string, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", fmt.Errorf("[PayloadCodec] конверт не распарсился: %w", apperrors.ErrInvalidPayload)
	}

	if payload.Version != PayloadVersion {
		return "", fmt.Errorf("[PayloadCodec] неподдерживаемая версия схемы %q: %w", payload.Version, apperrors.ErrInvalidPayload)
	}

	if payload.Type != PayloadType {
		return "", fmt.Errorf("[PayloadCodec] неверный тип конверта %q: %w", payload.Type, apperrors.ErrInvalidPayload)
	}

	if payload.Token == "" {
		return "", fmt.Errorf("[PayloadCodec] конверт без токена: %w", apperrors.ErrInvalidPayload)
	}

	return payload.Token, nil
}
