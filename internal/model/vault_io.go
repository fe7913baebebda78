package model

import "time"

// UploadInput : данные загрузки нового документа
type UploadInput struct {
	FileName      string
	Content       []byte
	GranteeUUID   string
	Role          Role
	Permission    Permission
	Description   string
	ExpiryMinutes int
}

// UploadResult : созданная запись вместе с QR-конвертом
type UploadResult struct {
	Document     *VaultDocument
	SharePayload string
	ExpiresAt    time.Time
}

// RedeemResult : сводка документа после предъявления конверта
// Токен возвращается получателю для последующего запроса содержимого
type RedeemResult struct {
	Document    *VaultDocument
	AccessToken string
}

// RequestMeta : сетевые идентификаторы запрашивающего для журнала доступа
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
