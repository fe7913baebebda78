package model

import "time"

// Role : роль получателя доступа
type Role string

const (
	RoleDoctor     Role = "doctor"
	RolePharmacist Role = "pharmacist"
	RoleDiagnostic Role = "diagnostic"
)

// Permission : уровень доступа, жёстко привязан к роли
type Permission string

const (
	PermissionFull     Permission = "full"
	PermissionPartial  Permission = "partial"
	PermissionReadOnly Permission = "read-only"
)

// Action : действие над документом
type Action string

const (
	ActionView      Action = "view"
	ActionDownload  Action = "download"
	ActionAnnotate  Action = "annotate"
	ActionPrescribe Action = "prescribe"
)

// MimeCategory : категория содержимого документа
type MimeCategory string

const (
	MimeCategoryPDF          MimeCategory = "pdf"
	MimeCategoryImage        MimeCategory = "image"
	MimeCategoryPrescription MimeCategory = "prescription"
	MimeCategoryLabReport    MimeCategory = "lab-report"
	MimeCategoryXray         MimeCategory = "xray"
	MimeCategoryOther        MimeCategory = "other"
)

// VaultDocument : зашифрованный документ хранилища
// Связка (owner, grantee, role, permission) фиксируется при создании
// и не изменяется: повторный шаринг создаёт новую запись
type VaultDocument struct {
	UUID             string       `db:"uuid" json:"uuid"`
	OwnerUUID        string       `db:"owner_uuid" json:"owner_uuid"`
	GranteeUUID      string       `db:"grantee_uuid" json:"grantee_uuid"`
	FilenameOriginal string       `db:"filename_original" json:"filename_original"`
	SizeBytes        int64        `db:"size_bytes" json:"size_bytes"`
	MimeCategory     MimeCategory `db:"mime_category" json:"mime_category"`
	ContentHash      string       `db:"content_hash" json:"content_hash"`
	StoragePath      string       `db:"storage_path" json:"storage_path"`
	Role             Role         `db:"role" json:"role"`
	Permission       Permission   `db:"permission" json:"permission"`
	Description      string       `db:"description" json:"description"`
	Active           bool         `db:"active" json:"active"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}
