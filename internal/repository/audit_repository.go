package repository

import (
	"context"
	"fmt"
	"strings"

	"health-vault-server/config"
	"health-vault-server/internal/model"
	"health-vault-server/internal/util"
)

const defaultAuditLimit = 50

// AuditRepository : журнал попыток доступа
// Таблица append-only: ни UPDATE, ни DELETE здесь нет и не появится,
// записи переживают деактивацию родительского документа
// Порядок задаёт seq (BIGSERIAL) — wall-clock может совпадать
type AuditRepository struct {
	*config.Database
}

func NewAuditRepository(database *config.Database) *AuditRepository {
	return &AuditRepository{database}
}

// Append : единственный мутатор журнала
func (r *AuditRepository) Append(ctx context.Context, entry *model.AccessLogEntry) error {
	query := `
		INSERT INTO access_logs (document_uuid, owner_uuid, grantee_uuid, access_type, access_method,
		                         ip_address, user_agent, success, error_kind, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`

	_, err := r.DB.ExecContext(ctx, query,
		entry.DocumentUUID,
		entry.OwnerUUID,
		entry.GranteeUUID,
		entry.AccessType,
		entry.AccessMethod,
		entry.IPAddress,
		entry.UserAgent,
		entry.Success,
		entry.ErrorKind,
		entry.DurationMs,
	)

	if err != nil {
		return util.LogError("[AuditRepo] не удалось записать попытку доступа", err)
	}

	return nil
}

// Query : выборка журнала, новые записи первыми
func (r *AuditRepository) Query(ctx context.Context, filter model.AccessLogFilter) ([]model.AccessLogEntry, error) {
	conditions := []string{}
	args := []interface{}{}

	addCondition := func(column string, value string) {
		if value != "" {
			args = append(args, value)
			conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}

	addCondition("document_uuid", filter.DocumentUUID)
	addCondition("owner_uuid", filter.OwnerUUID)
	addCondition("grantee_uuid", filter.GranteeUUID)

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT seq, document_uuid, owner_uuid, grantee_uuid, access_type, access_method,
		       ip_address, user_agent, success, error_kind, duration_ms, created_at
		FROM access_logs
		%s
		ORDER BY seq DESC
		LIMIT $%d
	`, where, len(args))

	entries := []model.AccessLogEntry{}
	rows, err := r.DB.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, util.LogError("[AuditRepo] не удалось получить журнал доступа", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry model.AccessLogEntry
		if err := rows.StructScan(&entry); err != nil {
			return nil, util.LogError("[AuditRepo] ошибка чтения строки журнала", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
