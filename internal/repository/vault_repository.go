package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"health-vault-server/config"
	"health-vault-server/internal/apperrors"
	"health-vault-server/internal/model"
	"health-vault-server/internal/util"
)

type VaultRepository struct {
	*config.Database
}

func NewVaultRepository(database *config.Database) *VaultRepository {
	return &VaultRepository{database}
}

// Create : сохраняем новую запись документа
// Связка (owner, grantee, role, permission) после вставки не изменяется
func (r *VaultRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.VaultDocument) error {
	query := `
		INSERT INTO vault_documents (uuid, owner_uuid, grantee_uuid, filename_original, size_bytes,
		                             mime_category, content_hash, storage_path, role, permission,
		                             description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, NOW(), NOW())
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		document.UUID,
		document.OwnerUUID,
		document.GranteeUUID,
		document.FilenameOriginal,
		document.SizeBytes,
		document.MimeCategory,
		document.ContentHash,
		document.StoragePath,
		document.Role,
		document.Permission,
		document.Description)

	if err != nil {
		return util.LogError("[VaultRepo] не удалось сохранить запись документа", err)
	}
	return nil
}

// GetByUUID : возвращает запись документа без проверки прав —
// авторизация выполняется оркестратором в фиксированном порядке
func (r *VaultRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.VaultDocument, error) {
	query := `
		SELECT uuid, owner_uuid, grantee_uuid, filename_original, size_bytes, mime_category,
		       content_hash, storage_path, role, permission, description, active, created_at, updated_at
		FROM vault_documents
		WHERE uuid = $1
	`

	var document model.VaultDocument
	err := sqlx.GetContext(ctx, exec, &document, query, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("[VaultRepo] запись %s отсутствует: %w", documentUUID, apperrors.ErrNotFound)
		}
		return nil, util.LogError("[VaultRepo] ошибка выборки документа", err)
	}

	return &document, nil
}

// ListByOwner : все записи пациента, включая деактивированные (история шаринга)
func (r *VaultRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.VaultDocument, error) {
	return r.list(ctx, exec, "owner_uuid", ownerUUID)
}

// ListByGrantee : активные записи, расшаренные данному клиницисту
func (r *VaultRepository) ListByGrantee(ctx context.Context, exec sqlx.ExtContext, granteeUUID string) ([]model.VaultDocument, error) {
	return r.list(ctx, exec, "grantee_uuid", granteeUUID)
}

func (r *VaultRepository) list(ctx context.Context, exec sqlx.ExtContext, column string, value string) ([]model.VaultDocument, error) {
	query := fmt.Sprintf(`
		SELECT uuid, owner_uuid, grantee_uuid, filename_original, size_bytes, mime_category,
		       content_hash, storage_path, role, permission, description, active, created_at, updated_at
		FROM vault_documents
		WHERE %s = $1
		ORDER BY created_at DESC
	`, column)

	docs := []model.VaultDocument{}
	rows, err := exec.QueryxContext(ctx, query, value)
	if err != nil {
		return nil, util.LogError("[VaultRepo] не удалось получить список документов", err)
	}
	defer rows.Close()

	for rows.Next() {
		var document model.VaultDocument
		if err := rows.StructScan(&document); err != nil {
			return nil, util.LogError("[VaultRepo] ошибка чтения строки", err)
		}
		docs = append(docs, document)
	}

	return docs, nil
}

// SoftDelete : только владелец может деактивировать документ
// Запись остаётся ради непрерывности журнала, ссылка на блоб освобождается
// Возвращает storage_path для физического удаления шифротекста
func (r *VaultRepository) SoftDelete(ctx context.Context, exec sqlx.ExtContext, documentUUID string, requesterOwnerUUID string) (string, error) {
	var row struct {
		OwnerUUID   string `db:"owner_uuid"`
		StoragePath string `db:"storage_path"`
		Active      bool   `db:"active"`
	}

	query := `
		SELECT owner_uuid, storage_path, active
		FROM vault_documents
		WHERE uuid = $1
		FOR UPDATE
	`
	if err := sqlx.GetContext(ctx, exec, &row, query, documentUUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("[VaultRepo] запись %s отсутствует: %w", documentUUID, apperrors.ErrNotFound)
		}
		return "", util.LogError("[VaultRepo] ошибка выборки перед деактивацией", err)
	}

	if row.OwnerUUID != requesterOwnerUUID {
		return "", fmt.Errorf("[VaultRepo] деактивация не владельцем: %w", apperrors.ErrAuthorization)
	}
	if row.Active == false {
		return "", fmt.Errorf("[VaultRepo] запись уже деактивирована: %w", apperrors.ErrInactive)
	}

	_, err := exec.ExecContext(ctx, `
		UPDATE vault_documents
		SET active = FALSE, storage_path = '', updated_at = NOW()
		WHERE uuid = $1
	`, documentUUID)
	if err != nil {
		return "", util.LogError("[VaultRepo] не удалось деактивировать запись", err)
	}

	return row.StoragePath, nil
}

func (r *VaultRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
