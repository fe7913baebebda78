package model

import "time"

// AccessType : вид попытки доступа
type AccessType string

const (
	AccessTypeRedeem   AccessType = "redeem"
	AccessTypeView     AccessType = "view"
	AccessTypeDownload AccessType = "download"
)

// AccessMethod : способ, которым предъявлен токен
type AccessMethod string

const (
	AccessMethodPayload AccessMethod = "payload"
	AccessMethodDirect  AccessMethod = "direct"
	AccessMethodAPI     AccessMethod = "api"
)

// AccessLogEntry : запись журнала доступа, только добавление
// seq назначается БД и задаёт порядок при равных timestamp
type AccessLogEntry struct {
	Seq          int64        `db:"seq" json:"seq"`
	DocumentUUID string       `db:"document_uuid" json:"document_uuid"`
	OwnerUUID    string       `db:"owner_uuid" json:"owner_uuid"`
	GranteeUUID  string       `db:"grantee_uuid" json:"grantee_uuid"`
	AccessType   AccessType   `db:"access_type" json:"access_type"`
	AccessMethod AccessMethod `db:"access_method" json:"access_method"`
	IPAddress    string       `db:"ip_address" json:"ip_address"`
	UserAgent    string       `db:"user_agent" json:"user_agent"`
	Success      bool         `db:"success" json:"success"`
	ErrorKind    *string      `db:"error_kind" json:"error_kind,omitempty"`
	DurationMs   int64        `db:"duration_ms" json:"duration_ms"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// AccessLogFilter : фильтр выборки журнала, пустые поля игнорируются
type AccessLogFilter struct {
	DocumentUUID string
	OwnerUUID    string
	GranteeUUID  string
	Limit        int
}
