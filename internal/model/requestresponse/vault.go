package requestresponse

import (
	"time"

	"health-vault-server/internal/model"
)

// UploadDocumentResponse : описывает ответ при загрузке документа
type UploadDocumentResponse struct {
	Data UploadDocumentData `json:"data"`
}

type UploadDocumentData struct {
	DocumentUUID string `json:"document_uuid" example:"qwdj1q4o34u34ih759ou1"`
	SharePayload string `json:"share_payload"`
	ExpiresAt    string `json:"expires_at" example:"2025-08-23T12:34:56Z"`
	FileName     string `json:"file_name" example:"analysis.pdf"`
	MimeCategory string `json:"mime_category" example:"lab-report"`
	SizeBytes    int64  `json:"size_bytes" example:"204800"`
}

// RedeemPayloadRequest : тело запроса предъявления QR-конверта
type RedeemPayloadRequest struct {
	SharePayload string `json:"share_payload"`
}

// RedeemPayloadResponse : сводка документа после успешного предъявления
// Токен возвращается для последующего запроса содержимого
type RedeemPayloadResponse struct {
	Data RedeemPayloadData `json:"data"`
}

type RedeemPayloadData struct {
	DocumentUUID string `json:"document_uuid"`
	FileName     string `json:"file_name"`
	MimeCategory string `json:"mime_category"`
	SizeBytes    int64  `json:"size_bytes"`
	Description  string `json:"description"`
	Role         string `json:"role" example:"doctor"`
	Permission   string `json:"permission" example:"full"`
	CreatedAt    string `json:"created"`
	AccessToken  string `json:"access_token"`
}

// DocumentResponse : описывает документ для JSON-ответа
type DocumentResponse struct {
	UUID         string `json:"id" example:"qwdj1q4o34u34ih759ou1"`
	FileName     string `json:"name" example:"analysis.pdf"`
	MimeCategory string `json:"mime_category" example:"pdf"`
	Role         string `json:"role" example:"doctor"`
	Permission   string `json:"permission" example:"full"`
	Description  string `json:"description"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"created" example:"2025-08-23T12:34:56Z"`
}

// DocumentResponseFromModel : конвертирует model.VaultDocument в DocumentResponse
func DocumentResponseFromModel(doc *model.VaultDocument) DocumentResponse {
	return DocumentResponse{
		UUID:         doc.UUID,
		FileName:     doc.FilenameOriginal,
		MimeCategory: string(doc.MimeCategory),
		Role:         string(doc.Role),
		Permission:   string(doc.Permission),
		Description:  doc.Description,
		Active:       doc.Active,
		CreatedAt:    doc.CreatedAt.Format(time.RFC3339),
	}
}

// ListDocumentsResponse : ответ API со списком документов
type ListDocumentsResponse struct {
	Data struct {
		Docs []DocumentResponse `json:"docs"`
	} `json:"data"`
	Count int `json:"count" example:"10"`
}

// AccessLogResponse : ответ API с записями журнала доступа
type AccessLogResponse struct {
	Data struct {
		Entries []model.AccessLogEntry `json:"entries"`
	} `json:"data"`
	Count int `json:"count" example:"50"`
}

// ExpiryOptionsResponse : предустановленные сроки действия токена
type ExpiryOptionsResponse struct {
	Data interface{} `json:"data"`
}

// RoleGrantsResponse : таблица роль → доступ → действия
type RoleGrantsResponse struct {
	Data interface{} `json:"data"`
}

// SuccessResponse : стандартный ответ успешного выполнения операции
type SuccessResponse struct {
	Message string `json:"message" example:"Операция выполнена успешно"`
}

// ErrorResponse : общий объект ошибки
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code" example:"400"`
}
