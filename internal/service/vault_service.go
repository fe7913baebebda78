package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"health-vault-server/internal/apperrors"
	"health-vault-server/internal/cipher"
	"health-vault-server/internal/model"
	"health-vault-server/internal/ports"
	"health-vault-server/internal/qr"
	"health-vault-server/internal/security"
	"health-vault-server/internal/util"
)

// VaultService : оркестратор хранилища документов
// Порядок проверок любого доступа фиксирован: токен → запись → активность →
// действие по таблице ролей → операция → журнал → ответ
// Токен проверяется первым, чтобы держатель невалидного токена
// не узнал о существовании документа
type VaultService struct {
	vaultRepository ports.VaultRepository
	auditRepository ports.AuditRepository
	cacheRepository ports.CacheRepository
	storage         ports.BlobStorage
	engine          *cipher.Engine
	capability      *security.CapabilityService
	alerter         ports.Alerter
}

func NewVaultService(
	vaultRepository ports.VaultRepository,
	auditRepository ports.AuditRepository,
	cacheRepository ports.CacheRepository,
	storage ports.BlobStorage,
	engine *cipher.Engine,
	capability *security.CapabilityService,
	alerter ports.Alerter,
) *VaultService {
	return &VaultService{
		vaultRepository: vaultRepository,
		auditRepository: auditRepository,
		cacheRepository: cacheRepository,
		storage:         storage,
		engine:          engine,
		capability:      capability,
		alerter:         alerter,
	}
}

// UploadDocument : шифрует содержимое, сохраняет блоб и запись,
// выдаёт токен и упаковывает его в QR-конверт
// Каждый шаринг — отдельная запись с независимым шифрованием
func (s *VaultService) UploadDocument(ctx context.Context, ownerUUID string, input *model.UploadInput) (*model.UploadResult, error) {
	if len(input.Content) == 0 {
		return nil, fmt.Errorf("[VaultService] пустое содержимое файла: %w", apperrors.ErrValidation)
	}
	if input.GranteeUUID == "" {
		return nil, fmt.Errorf("[VaultService] получатель не указан: %w", apperrors.ErrValidation)
	}

	tablePermission, ok := qr.PermissionForRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("[VaultService] неизвестная роль %q: %w", input.Role, apperrors.ErrValidation)
	}
	if input.Permission == "" {
		input.Permission = tablePermission
	} else if input.Permission != tablePermission {
		return nil, fmt.Errorf("[VaultService] уровень доступа %q не соответствует роли %q: %w",
			input.Permission, input.Role, apperrors.ErrValidation)
	}

	if !qr.IsAllowedExpiry(input.ExpiryMinutes) {
		return nil, fmt.Errorf("[VaultService] срок действия %d не из предустановленного меню: %w",
			input.ExpiryMinutes, apperrors.ErrValidation)
	}

	blob, contentHash, err := s.engine.Encrypt(input.Content)
	if err != nil {
		return nil, util.LogError("[VaultService] не удалось зашифровать документ", err)
	}

	now := time.Now()
	document := &model.VaultDocument{
		UUID:             uuid.New().String(),
		OwnerUUID:        ownerUUID,
		GranteeUUID:      input.GranteeUUID,
		FilenameOriginal: input.FileName,
		SizeBytes:        int64(len(input.Content)),
		MimeCategory:     classifyMimeCategory(input.FileName),
		ContentHash:      contentHash,
		Role:             input.Role,
		Permission:       input.Permission,
		Description:      input.Description,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	document.StoragePath = fmt.Sprintf("vault/%s/%s", ownerUUID, document.UUID)

	if err := s.storage.UploadObject(ctx, document.StoragePath, blob); err != nil {
		return nil, util.LogError("[VaultService] не удалось сохранить блоб", err)
	}

	exec, rollback, commit, err := s.vaultRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[VaultService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := s.vaultRepository.Create(ctx, exec, document); err != nil {
		s.cleanupBlob(ctx, document.StoragePath)
		return nil, util.LogError("[VaultService] не удалось сохранить запись документа", err)
	}

	if err := commit(); err != nil {
		s.cleanupBlob(ctx, document.StoragePath)
		return nil, util.LogError("[VaultService] не удалось закоммитить транзакцию", err)
	}

	token, expiresAt, err := s.capability.Issue(document, time.Duration(input.ExpiryMinutes)*time.Minute)
	if err != nil {
		return nil, util.LogError("[VaultService] не удалось выдать токен", err)
	}

	payload, err := qr.Wrap(token)
	if err != nil {
		return nil, util.LogError("[VaultService] не удалось упаковать конверт", err)
	}

	log.Printf("[VaultService] документ %s зашифрован и расшарен для %s (роль %s)",
		document.UUID, document.GranteeUUID, document.Role)

	return &model.UploadResult{
		Document:     document,
		SharePayload: payload,
		ExpiresAt:    expiresAt,
	}, nil
}

// Redeem : предъявление QR-конверта получателем
// Конверт, из которого не извлечь валидный контекст документа,
// в журнал не попадает — мусорные сканы не создают шум
func (s *VaultService) Redeem(ctx context.Context, rawPayload string, granteeUUID string, meta model.RequestMeta) (*model.RedeemResult, error) {
	started := time.Now()

	token, err := qr.Unwrap(rawPayload)
	if err != nil {
		return nil, err
	}

	claims, err := s.capability.Verify(token, granteeUUID)
	if err != nil {
		s.logAttempt(ctx, s.entryFromClaims(claims, granteeUUID, model.AccessTypeRedeem, model.AccessMethodPayload, meta, started, err))
		return nil, err
	}

	document, err := s.loadDocument(ctx, claims.DocumentUUID)
	if err != nil {
		s.logAttempt(ctx, s.entryFromClaims(claims, granteeUUID, model.AccessTypeRedeem, model.AccessMethodPayload, meta, started, err))
		return nil, err
	}

	if document.Active == false {
		err := fmt.Errorf("[VaultService] документ %s отозван владельцем: %w", document.UUID, apperrors.ErrInactive)
		s.logAttempt(ctx, s.entryFromDocument(document, model.AccessTypeRedeem, model.AccessMethodPayload, meta, started, err))
		return nil, err
	}

	s.logAttempt(ctx, s.entryFromDocument(document, model.AccessTypeRedeem, model.AccessMethodPayload, meta, started, nil))

	return &model.RedeemResult{
		Document:    document,
		AccessToken: token,
	}, nil
}

// FetchContent : выдача расшифрованного содержимого по токену
// Расшифровка без блокировок: запись могла быть отозвана после начала
// чтения блоба — это допустимая гонка, новая попытка уже не пройдёт
func (s *VaultService) FetchContent(ctx context.Context, documentUUID string, token string, granteeUUID string, action model.Action, meta model.RequestMeta) ([]byte, *model.VaultDocument, error) {
	started := time.Now()

	accessType := model.AccessTypeView
	if action == model.ActionDownload {
		accessType = model.AccessTypeDownload
	}

	claims, err := s.capability.Verify(token, granteeUUID)
	if err != nil {
		entry := s.entryFromClaims(claims, granteeUUID, accessType, model.AccessMethodAPI, meta, started, err)
		entry.DocumentUUID = documentUUID
		s.logAttempt(ctx, entry)
		return nil, nil, err
	}

	if claims.DocumentUUID != documentUUID {
		err := fmt.Errorf("[VaultService] токен выдан на другой документ: %w", apperrors.ErrToken)
		entry := s.entryFromClaims(claims, granteeUUID, accessType, model.AccessMethodAPI, meta, started, err)
		entry.DocumentUUID = documentUUID
		s.logAttempt(ctx, entry)
		return nil, nil, err
	}

	document, err := s.loadDocument(ctx, documentUUID)
	if err != nil {
		s.logAttempt(ctx, s.entryFromClaims(claims, granteeUUID, accessType, model.AccessMethodAPI, meta, started, err))
		return nil, nil, err
	}

	if document.Active == false {
		err := fmt.Errorf("[VaultService] документ %s отозван владельцем: %w", document.UUID, apperrors.ErrInactive)
		s.logAttempt(ctx, s.entryFromDocument(document, accessType, model.AccessMethodAPI, meta, started, err))
		return nil, nil, err
	}

	if !qr.IsActionAllowed(claims.Role, action) {
		err := fmt.Errorf("[VaultService] роль %q не допускает действие %q: %w", claims.Role, action, apperrors.ErrAuthorization)
		s.logAttempt(ctx, s.entryFromDocument(document, accessType, model.AccessMethodAPI, meta, started, err))
		return nil, nil, err
	}

	blob, err := s.storage.DownloadObject(ctx, document.StoragePath)
	if err != nil {
		s.logAttempt(ctx, s.entryFromDocument(document, accessType, model.AccessMethodAPI, meta, started, err))
		return nil, nil, util.LogError("[VaultService] не удалось прочитать блоб", err)
	}

	plaintext, err := s.engine.Decrypt(blob)
	if err != nil {
		s.logAttempt(ctx, s.entryFromDocument(document, accessType, model.AccessMethodAPI, meta, started, err))
		return nil, nil, util.LogError("[VaultService] расшифровка не прошла", err)
	}

	if !s.engine.VerifyIntegrity(plaintext, document.ContentHash) {
		// расшифровка прошла, но хэш разошёлся — дефект слоя хранения,
		// такие данные отдавать нельзя
		err := fmt.Errorf("[VaultService] хэш содержимого документа %s не совпал: %w", document.UUID, apperrors.ErrIntegrityMismatch)
		s.logAttempt(ctx, s.entryFromDocument(document, accessType, model.AccessMethodAPI, meta, started, err))
		return nil, nil, err
	}

	s.logAttempt(ctx, s.entryFromDocument(document, accessType, model.AccessMethodAPI, meta, started, nil))

	return plaintext, document, nil
}

// ListByOwner : записи пациента, включая деактивированные
func (s *VaultService) ListByOwner(ctx context.Context, ownerUUID string) ([]model.VaultDocument, error) {
	exec, rollback, commit, err := s.vaultRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[VaultService] не удалось начать транзакцию", err)
	}
	defer rollback()

	docs, err := s.vaultRepository.ListByOwner(ctx, exec, ownerUUID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[VaultService] не удалось закоммитить транзакцию", err)
	}

	return docs, nil
}

// ListByGrantee : записи, расшаренные клиницисту
func (s *VaultService) ListByGrantee(ctx context.Context, granteeUUID string) ([]model.VaultDocument, error) {
	exec, rollback, commit, err := s.vaultRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[VaultService] не удалось начать транзакцию", err)
	}
	defer rollback()

	docs, err := s.vaultRepository.ListByGrantee(ctx, exec, granteeUUID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[VaultService] не удалось закоммитить транзакцию", err)
	}

	return docs, nil
}

// AccessLogs : журнал доступа к документу, только для владельца
func (s *VaultService) AccessLogs(ctx context.Context, documentUUID string, requesterOwnerUUID string) ([]model.AccessLogEntry, error) {
	document, err := s.loadDocument(ctx, documentUUID)
	if err != nil {
		return nil, err
	}

	if document.OwnerUUID != requesterOwnerUUID {
		return nil, fmt.Errorf("[VaultService] журнал доступен только владельцу: %w", apperrors.ErrAuthorization)
	}

	return s.auditRepository.Query(ctx, model.AccessLogFilter{DocumentUUID: documentUUID})
}

// Revoke : мягкое удаление — единственный и необратимый переход Active → Inactive
// Кэш инвалидируется до и после коммита: читатель, начавший после возврата
// из Revoke, не должен увидеть старое содержимое ни из какого слоя
func (s *VaultService) Revoke(ctx context.Context, documentUUID string, requesterOwnerUUID string) error {
	exec, rollback, commit, err := s.vaultRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[VaultService] не удалось начать транзакцию", err)
	}
	defer rollback()

	storagePath, err := s.vaultRepository.SoftDelete(ctx, exec, documentUUID, requesterOwnerUUID)
	if err != nil {
		return err
	}

	if err := s.cacheRepository.DeleteDocument(ctx, documentUUID); err != nil {
		log.Printf("[VaultService] ошибка удаления документа из кэша: %v", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[VaultService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteDocument(ctx, documentUUID); err != nil {
		log.Printf("[VaultService] ошибка удаления документа из кэша: %v", err)
	}

	if storagePath != "" {
		if err := s.storage.DeleteObject(ctx, storagePath); err != nil {
			return util.LogError("[VaultService] запись деактивирована, но блоб не удалён", err)
		}
	}

	log.Printf("[VaultService] документ %s отозван владельцем", documentUUID)
	return nil
}

// loadDocument : cache-aside чтение записи документа
func (s *VaultService) loadDocument(ctx context.Context, documentUUID string) (*model.VaultDocument, error) {
	if documentUUID == "" {
		return nil, fmt.Errorf("[VaultService] пустой идентификатор документа: %w", apperrors.ErrNotFound)
	}

	document, err := s.cacheRepository.GetDocument(ctx, documentUUID)
	if err != nil {
		log.Printf("[VaultService] ошибка чтения кэша: %v", err)
	}
	if document != nil {
		return document, nil
	}

	exec, rollback, commit, err := s.vaultRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[VaultService] не удалось начать транзакцию", err)
	}
	defer rollback()

	document, err = s.vaultRepository.GetByUUID(ctx, exec, documentUUID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[VaultService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.SetDocument(ctx, document); err != nil {
		log.Printf("[VaultService] ошибка кэширования документа: %v", err)
	}

	return document, nil
}

// logAttempt : ровно одна запись журнала на попытку, до возврата результата
// Сбой журнала не блокирует ответ авторизованному получателю,
// но обязан уйти в операционный канал
func (s *VaultService) logAttempt(ctx context.Context, entry *model.AccessLogEntry) {
	if entry.DocumentUUID == "" {
		return
	}

	if err := s.auditRepository.Append(ctx, entry); err != nil {
		detail := fmt.Sprintf("document=%s grantee=%s type=%s success=%t",
			entry.DocumentUUID, entry.GranteeUUID, entry.AccessType, entry.Success)
		if s.alerter != nil {
			if alertErr := s.alerter.Notify(ctx, "сбой записи журнала доступа", detail); alertErr != nil {
				log.Printf("[VaultService] оповещение о сбое журнала не доставлено: %v", alertErr)
			}
		}
	}
}

func (s *VaultService) entryFromClaims(claims *security.CapabilityClaims, granteeUUID string, accessType model.AccessType, method model.AccessMethod, meta model.RequestMeta, started time.Time, cause error) *model.AccessLogEntry {
	entry := &model.AccessLogEntry{
		GranteeUUID:  granteeUUID,
		AccessType:   accessType,
		AccessMethod: method,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      cause == nil,
		DurationMs:   time.Since(started).Milliseconds(),
	}
	if claims != nil {
		entry.DocumentUUID = claims.DocumentUUID
		entry.OwnerUUID = claims.OwnerUUID
	}
	if cause != nil {
		kind := apperrors.Kind(cause)
		entry.ErrorKind = &kind
	}
	return entry
}

func (s *VaultService) entryFromDocument(document *model.VaultDocument, accessType model.AccessType, method model.AccessMethod, meta model.RequestMeta, started time.Time, cause error) *model.AccessLogEntry {
	entry := &model.AccessLogEntry{
		DocumentUUID: document.UUID,
		OwnerUUID:    document.OwnerUUID,
		GranteeUUID:  document.GranteeUUID,
		AccessType:   accessType,
		AccessMethod: method,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      cause == nil,
		DurationMs:   time.Since(started).Milliseconds(),
	}
	if cause != nil {
		kind := apperrors.Kind(cause)
		entry.ErrorKind = &kind
	}
	return entry
}

// cleanupBlob : откат блоба, если запись в БД не прошла
func (s *VaultService) cleanupBlob(ctx context.Context, storagePath string) {
	if err := s.storage.DeleteObject(ctx, storagePath); err != nil {
		log.Printf("[VaultService] осиротевший блоб %s не удалён: %v", storagePath, err)
	}
}

// classifyMimeCategory : категория по имени файла, как в исходной системе
func classifyMimeCategory(fileName string) model.MimeCategory {
	lower := strings.ToLower(fileName)

	switch {
	case strings.Contains(lower, "prescription"):
		return model.MimeCategoryPrescription
	case strings.Contains(lower, "lab"), strings.Contains(lower, "report"):
		return model.MimeCategoryLabReport
	case strings.Contains(lower, "xray"), strings.Contains(lower, "x-ray"):
		return model.MimeCategoryXray
	}

	switch filepath.Ext(lower) {
	case ".pdf":
		return model.MimeCategoryPDF
	case ".jpg", ".jpeg", ".png":
		return model.MimeCategoryImage
	default:
		return model.MimeCategoryOther
	}
}

// ContentTypeFor : HTTP Content-Type по категории содержимого
func ContentTypeFor(category model.MimeCategory) string {
	switch category {
	case model.MimeCategoryPDF, model.MimeCategoryPrescription, model.MimeCategoryLabReport:
		return "application/pdf"
	case model.MimeCategoryImage, model.MimeCategoryXray:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
