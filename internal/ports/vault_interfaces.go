package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"health-vault-server/internal/model"
)

// VaultRepository : SQL-слой записей хранилища
type VaultRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, document *model.VaultDocument) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.VaultDocument, error)
	ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.VaultDocument, error)
	ListByGrantee(ctx context.Context, exec sqlx.ExtContext, granteeUUID string) ([]model.VaultDocument, error)
	SoftDelete(ctx context.Context, exec sqlx.ExtContext, documentUUID string, requesterOwnerUUID string) (string, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// AuditRepository : журнал доступа, только добавление и выборка
type AuditRepository interface {
	Append(ctx context.Context, entry *model.AccessLogEntry) error
	Query(ctx context.Context, filter model.AccessLogFilter) ([]model.AccessLogEntry, error)
}

// CacheRepository : кэш метаданных документов
type CacheRepository interface {
	GetDocument(ctx context.Context, uuid string) (*model.VaultDocument, error)
	SetDocument(ctx context.Context, document *model.VaultDocument) error
	DeleteDocument(ctx context.Context, uuid string) error
}

// BlobStorage : байтовое хранилище зашифрованных блобов
type BlobStorage interface {
	UploadObject(ctx context.Context, key string, data []byte) error
	DownloadObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
}

// Alerter : операционный канал для сбоев, которые нельзя терять молча
type Alerter interface {
	Notify(ctx context.Context, subject string, detail string) error
}

// VaultService : публичные операции хранилища документов
type VaultService interface {
	UploadDocument(ctx context.Context, ownerUUID string, input *model.UploadInput) (*model.UploadResult, error)
	Redeem(ctx context.Context, rawPayload string, granteeUUID string, meta model.RequestMeta) (*model.RedeemResult, error)
	FetchContent(ctx context.Context, documentUUID string, token string, granteeUUID string, action model.Action, meta model.RequestMeta) ([]byte, *model.VaultDocument, error)
	ListByOwner(ctx context.Context, ownerUUID string) ([]model.VaultDocument, error)
	ListByGrantee(ctx context.Context, granteeUUID string) ([]model.VaultDocument, error)
	AccessLogs(ctx context.Context, documentUUID string, requesterOwnerUUID string) ([]model.AccessLogEntry, error)
	Revoke(ctx context.Context, documentUUID string, requesterOwnerUUID string) error
}
