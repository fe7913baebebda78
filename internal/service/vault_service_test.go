package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"health-vault-server/internal/apperrors"
	"health-vault-server/internal/cipher"
	"health-vault-server/internal/model"
	"health-vault-server/internal/qr"
	"health-vault-server/internal/security"
	"health-vault-server/internal/service"
)

// ===== Моки портов =====

type MockVaultRepository struct{ mock.Mock }

func (m *MockVaultRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.VaultDocument) error {
	return m.Called(ctx, exec, document).Error(0)
}

func (m *MockVaultRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.VaultDocument, error) {
	args := m.Called(ctx, exec, documentUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaultDocument), args.Error(1)
}

func (m *MockVaultRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.VaultDocument, error) {
	args := m.Called(ctx, exec, ownerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VaultDocument), args.Error(1)
}

func (m *MockVaultRepository) ListByGrantee(ctx context.Context, exec sqlx.ExtContext, granteeUUID string) ([]model.VaultDocument, error) {
	args := m.Called(ctx, exec, granteeUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VaultDocument), args.Error(1)
}

func (m *MockVaultRepository) SoftDelete(ctx context.Context, exec sqlx.ExtContext, documentUUID string, requesterOwnerUUID string) (string, error) {
	args := m.Called(ctx, exec, documentUUID, requesterOwnerUUID)
	return args.String(0), args.Error(1)
}

func (m *MockVaultRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return args.Get(0).(sqlx.ExtContext), args.Get(1).(func() error), args.Get(2).(func() error), args.Error(3)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Append(ctx context.Context, entry *model.AccessLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditRepository) Query(ctx context.Context, filter model.AccessLogFilter) ([]model.AccessLogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessLogEntry), args.Error(1)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) GetDocument(ctx context.Context, uuid string) (*model.VaultDocument, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaultDocument), args.Error(1)
}

func (m *MockCacheRepository) SetDocument(ctx context.Context, document *model.VaultDocument) error {
	return m.Called(ctx, document).Error(0)
}

func (m *MockCacheRepository) DeleteDocument(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

type MockBlobStorage struct{ mock.Mock }

func (m *MockBlobStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	return m.Called(ctx, key, data).Error(0)
}

func (m *MockBlobStorage) DownloadObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockAlerter struct{ mock.Mock }

func (m *MockAlerter) Notify(ctx context.Context, subject string, detail string) error {
	return m.Called(ctx, subject, detail).Error(0)
}

type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return &sql.Row{}
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return &sqlx.Row{}
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return "", nil, nil
}
func (f *fakeTx) DriverName() string         { return "fake" }
func (f *fakeTx) Rebind(query string) string { return query }

// ===== Сборка сервиса с моками =====

type testEnv struct {
	svc        *service.VaultService
	vaultRepo  *MockVaultRepository
	auditRepo  *MockAuditRepository
	cache      *MockCacheRepository
	storage    *MockBlobStorage
	alerter    *MockAlerter
	engine     *cipher.Engine
	capability *security.CapabilityService
}

func newTestEnv(t *testing.T) *testEnv {
	engine, err := cipher.NewEngine("test-passphrase", "test-salt")
	require.NoError(t, err)

	capability := security.NewCapabilityService([]byte("test-capability-secret"))

	env := &testEnv{
		vaultRepo:  new(MockVaultRepository),
		auditRepo:  new(MockAuditRepository),
		cache:      new(MockCacheRepository),
		storage:    new(MockBlobStorage),
		alerter:    new(MockAlerter),
		engine:     engine,
		capability: capability,
	}
	env.svc = service.NewVaultService(
		env.vaultRepo,
		env.auditRepo,
		env.cache,
		env.storage,
		engine,
		capability,
		env.alerter,
	)
	return env
}

func (env *testEnv) expectTX() {
	noop := func() error { return nil }
	env.vaultRepo.On("BeginTX", mock.Anything).Return(&fakeTx{}, noop, noop, nil)
}

// sharedDocument : запись с уже зашифрованным содержимым и рабочим токеном
func (env *testEnv) sharedDocument(t *testing.T, content []byte, role model.Role, ttl time.Duration) (*model.VaultDocument, []byte, string) {
	blob, hash, err := env.engine.Encrypt(content)
	require.NoError(t, err)

	permission, ok := qr.PermissionForRole(role)
	require.True(t, ok)

	document := &model.VaultDocument{
		UUID:             "doc-1",
		OwnerUUID:        "owner-1",
		GranteeUUID:      "grantee-1",
		FilenameOriginal: "prescription.pdf",
		SizeBytes:        int64(len(content)),
		MimeCategory:     model.MimeCategoryPrescription,
		ContentHash:      hash,
		StoragePath:      "vault/owner-1/doc-1",
		Role:             role,
		Permission:       permission,
		Active:           true,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	token, _, err := env.capability.Issue(document, ttl)
	require.NoError(t, err)

	return document, blob, token
}

var meta = model.RequestMeta{IPAddress: "10.0.0.7:51234", UserAgent: "vault-test/1.0"}

// ===== UploadDocument =====

func TestUploadDocument_Success(t *testing.T) {
	env := newTestEnv(t)
	env.expectTX()

	content := []byte("patient lab report body")
	env.storage.On("UploadObject", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	env.vaultRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := env.svc.UploadDocument(context.Background(), "owner-1", &model.UploadInput{
		FileName:      "lab-results.pdf",
		Content:       content,
		GranteeUUID:   "grantee-1",
		Role:          model.RoleDoctor,
		ExpiryMinutes: 30,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "owner-1", result.Document.OwnerUUID)
	assert.Equal(t, model.PermissionFull, result.Document.Permission, "уровень доступа выводится из роли")
	assert.Equal(t, model.MimeCategoryLabReport, result.Document.MimeCategory)
	assert.True(t, result.Document.Active)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), result.ExpiresAt, 5*time.Second)

	// конверт должен разворачиваться и содержать проверяемый токен
	token, err := qr.Unwrap(result.SharePayload)
	require.NoError(t, err)
	claims, err := env.capability.Verify(token, "grantee-1")
	require.NoError(t, err)
	assert.Equal(t, result.Document.UUID, claims.DocumentUUID)
	assert.Equal(t, model.RoleDoctor, claims.Role)

	env.storage.AssertExpectations(t)
	env.vaultRepo.AssertExpectations(t)
}

func TestUploadDocument_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		input *model.UploadInput
	}{
		{"пустое содержимое", &model.UploadInput{
			FileName: "a.pdf", GranteeUUID: "grantee-1", Role: model.RoleDoctor, ExpiryMinutes: 30,
		}},
		{"нет получателя", &model.UploadInput{
			FileName: "a.pdf", Content: []byte("x"), Role: model.RoleDoctor, ExpiryMinutes: 30,
		}},
		{"неизвестная роль", &model.UploadInput{
			FileName: "a.pdf", Content: []byte("x"), GranteeUUID: "grantee-1", Role: "admin", ExpiryMinutes: 30,
		}},
		{"уровень не соответствует роли", &model.UploadInput{
			FileName: "a.pdf", Content: []byte("x"), GranteeUUID: "grantee-1",
			Role: model.RolePharmacist, Permission: model.PermissionFull, ExpiryMinutes: 30,
		}},
		{"срок вне меню", &model.UploadInput{
			FileName: "a.pdf", Content: []byte("x"), GranteeUUID: "grantee-1",
			Role: model.RoleDoctor, ExpiryMinutes: 45,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			result, err := env.svc.UploadDocument(context.Background(), "owner-1", tt.input)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			env.storage.AssertNotCalled(t, "UploadObject", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUploadDocument_RepositoryFailureCleansUpBlob(t *testing.T) {
	env := newTestEnv(t)
	env.expectTX()

	env.storage.On("UploadObject", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	env.vaultRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db error"))
	env.storage.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)

	result, err := env.svc.UploadDocument(context.Background(), "owner-1", &model.UploadInput{
		FileName:      "scan.png",
		Content:       []byte("x"),
		GranteeUUID:   "grantee-1",
		Role:          model.RoleDiagnostic,
		ExpiryMinutes: 120,
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	env.storage.AssertCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}

// ===== Redeem =====

func TestRedeem_Success(t *testing.T) {
	env := newTestEnv(t)

	document, _, token := env.sharedDocument(t, []byte("body"), model.RolePharmacist, 30*time.Minute)
	payload, err := qr.Wrap(token)
	require.NoError(t, err)

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return e.Success && e.AccessType == model.AccessTypeRedeem &&
			e.DocumentUUID == document.UUID && e.GranteeUUID == "grantee-1" &&
			e.IPAddress == meta.IPAddress && e.ErrorKind == nil
	})).Return(nil)

	result, err := env.svc.Redeem(context.Background(), payload, "grantee-1", meta)

	require.NoError(t, err)
	assert.Equal(t, document.UUID, result.Document.UUID)
	assert.Equal(t, token, result.AccessToken)
	env.auditRepo.AssertExpectations(t)
	env.auditRepo.AssertNumberOfCalls(t, "Append", 1)
}

func TestRedeem_GarbagePayloadMakesNoLogEntry(t *testing.T) {
	env := newTestEnv(t)

	for _, raw := range []string{"", "not json", `{"version":"2.0"}`, `{"token":"","version":"1.0","type":"vault-access"}`} {
		result, err := env.svc.Redeem(context.Background(), raw, "grantee-1", meta)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPayload)
	}

	env.auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestRedeem_ExpiredTokenIsLogged(t *testing.T) {
	env := newTestEnv(t)

	document, _, token := env.sharedDocument(t, []byte("body"), model.RoleDoctor, -time.Hour)
	payload, err := qr.Wrap(token)
	require.NoError(t, err)

	// claims разбираются даже из просроченного токена, контекст для журнала есть
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return !e.Success && e.DocumentUUID == document.UUID &&
			e.ErrorKind != nil && *e.ErrorKind == "token"
	})).Return(nil)

	result, err := env.svc.Redeem(context.Background(), payload, "grantee-1", meta)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrToken)
	env.auditRepo.AssertExpectations(t)
}

func TestRedeem_ForeignGranteeRejected(t *testing.T) {
	env := newTestEnv(t)

	_, _, token := env.sharedDocument(t, []byte("body"), model.RoleDoctor, 30*time.Minute)
	payload, err := qr.Wrap(token)
	require.NoError(t, err)

	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return !e.Success && e.GranteeUUID == "intruder"
	})).Return(nil)

	result, err := env.svc.Redeem(context.Background(), payload, "intruder", meta)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrToken)
}

func TestRedeem_InactiveDocument(t *testing.T) {
	env := newTestEnv(t)

	document, _, token := env.sharedDocument(t, []byte("body"), model.RoleDoctor, 30*time.Minute)
	document.Active = false
	payload, err := qr.Wrap(token)
	require.NoError(t, err)

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return !e.Success && e.ErrorKind != nil && *e.ErrorKind == "inactive"
	})).Return(nil)

	result, err := env.svc.Redeem(context.Background(), payload, "grantee-1", meta)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInactive)
	env.auditRepo.AssertExpectations(t)
}

func TestRedeem_AuditFailureDoesNotBlockResponse(t *testing.T) {
	env := newTestEnv(t)

	document, _, token := env.sharedDocument(t, []byte("body"), model.RoleDoctor, 30*time.Minute)
	payload, err := qr.Wrap(token)
	require.NoError(t, err)

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)
	env.auditRepo.On("Append", mock.Anything, mock.Anything).Return(errors.New("журнал недоступен"))
	env.alerter.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := env.svc.Redeem(context.Background(), payload, "grantee-1", meta)

	require.NoError(t, err, "сбой журнала не должен блокировать ответ")
	assert.Equal(t, document.UUID, result.Document.UUID)
	env.alerter.AssertCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

// ===== FetchContent =====

func TestFetchContent_Success(t *testing.T) {
	env := newTestEnv(t)

	content := []byte("decrypted prescription body")
	document, blob, token := env.sharedDocument(t, content, model.RolePharmacist, 30*time.Minute)

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)
	env.storage.On("DownloadObject", mock.Anything, document.StoragePath).Return(blob, nil)
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return e.Success && e.AccessType == model.AccessTypeView && e.AccessMethod == model.AccessMethodAPI
	})).Return(nil)

	plaintext, doc, err := env.svc.FetchContent(context.Background(), document.UUID, token, "grantee-1", model.ActionView, meta)

	require.NoError(t, err)
	assert.Equal(t, content, plaintext)
	assert.Equal(t, document.UUID, doc.UUID)
	env.auditRepo.AssertNumberOfCalls(t, "Append", 1)
}

func TestFetchContent_DownloadActionLoggedAsDownload(t *testing.T) {
	env := newTestEnv(t)

	content := []byte("body")
	document, blob, token := env.sharedDocument(t, content, model.RolePharmacist, 30*time.Minute)

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)
	env.storage.On("DownloadObject", mock.Anything, document.StoragePath).Return(blob, nil)
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return e.Success && e.AccessType == model.AccessTypeDownload
	})).Return(nil)

	_, _, err := env.svc.FetchContent(context.Background(), document.UUID, token, "grantee-1", model.ActionDownload, meta)

	require.NoError(t, err)
	env.auditRepo.AssertExpectations(t)
}

func TestFetchContent_ActionDeniedByRoleTable(t *testing.T) {
	env := newTestEnv(t)

	document, _, token := env.sharedDocument(t, []byte("body"), model.RolePharmacist, 30*time.Minute)

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return !e.Success && e.ErrorKind != nil && *e.ErrorKind == "authorization"
	})).Return(nil)

	plaintext, _, err := env.svc.FetchContent(context.Background(), document.UUID, token, "grantee-1", model.ActionPrescribe, meta)

	assert.Nil(t, plaintext)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	env.storage.AssertNotCalled(t, "DownloadObject", mock.Anything, mock.Anything)
	env.auditRepo.AssertExpectations(t)
}

func TestFetchContent_TokenForDifferentDocument(t *testing.T) {
	env := newTestEnv(t)

	_, _, token := env.sharedDocument(t, []byte("body"), model.RoleDoctor, 30*time.Minute)

	// журнал атрибутирует попытку к документу из запроса, не из токена
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return !e.Success && e.DocumentUUID == "doc-other"
	})).Return(nil)

	plaintext, _, err := env.svc.FetchContent(context.Background(), "doc-other", token, "grantee-1", model.ActionView, meta)

	assert.Nil(t, plaintext)
	assert.ErrorIs(t, err, apperrors.ErrToken)
	env.auditRepo.AssertExpectations(t)
}

func TestFetchContent_TamperedBlob(t *testing.T) {
	env := newTestEnv(t)

	document, blob, token := env.sharedDocument(t, []byte("body"), model.RoleDoctor, 30*time.Minute)
	blob[len(blob)-1] ^= 0x01

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)
	env.storage.On("DownloadObject", mock.Anything, document.StoragePath).Return(blob, nil)
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return !e.Success && e.ErrorKind != nil && *e.ErrorKind == "authentication-failed"
	})).Return(nil)

	plaintext, _, err := env.svc.FetchContent(context.Background(), document.UUID, token, "grantee-1", model.ActionView, meta)

	assert.Nil(t, plaintext)
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
	env.auditRepo.AssertExpectations(t)
}

func TestFetchContent_IntegrityMismatch(t *testing.T) {
	env := newTestEnv(t)

	document, blob, token := env.sharedDocument(t, []byte("body"), model.RoleDoctor, 30*time.Minute)
	document.ContentHash = "0000000000000000000000000000000000000000000000000000000000000000"

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)
	env.storage.On("DownloadObject", mock.Anything, document.StoragePath).Return(blob, nil)
	env.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AccessLogEntry) bool {
		return !e.Success && e.ErrorKind != nil && *e.ErrorKind == "integrity-mismatch"
	})).Return(nil)

	plaintext, _, err := env.svc.FetchContent(context.Background(), document.UUID, token, "grantee-1", model.ActionView, meta)

	assert.Nil(t, plaintext)
	assert.ErrorIs(t, err, apperrors.ErrIntegrityMismatch)
	env.auditRepo.AssertExpectations(t)
}

func TestFetchContent_CacheMissFallsBackToDatabase(t *testing.T) {
	env := newTestEnv(t)
	env.expectTX()

	content := []byte("body")
	document, blob, token := env.sharedDocument(t, content, model.RoleDiagnostic, 30*time.Minute)

	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(nil, nil)
	env.vaultRepo.On("GetByUUID", mock.Anything, mock.Anything, document.UUID).Return(document, nil)
	env.cache.On("SetDocument", mock.Anything, document).Return(nil)
	env.storage.On("DownloadObject", mock.Anything, document.StoragePath).Return(blob, nil)
	env.auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	plaintext, _, err := env.svc.FetchContent(context.Background(), document.UUID, token, "grantee-1", model.ActionView, meta)

	require.NoError(t, err)
	assert.Equal(t, content, plaintext)
	env.cache.AssertCalled(t, "SetDocument", mock.Anything, document)
}

// ===== AccessLogs =====

func TestAccessLogs_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)

	document, _, _ := env.sharedDocument(t, []byte("body"), model.RoleDoctor, time.Minute)
	env.cache.On("GetDocument", mock.Anything, document.UUID).Return(document, nil)

	_, err := env.svc.AccessLogs(context.Background(), document.UUID, "stranger")
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)

	entries := []model.AccessLogEntry{{DocumentUUID: document.UUID, Success: true}}
	env.auditRepo.On("Query", mock.Anything, model.AccessLogFilter{DocumentUUID: document.UUID}).Return(entries, nil)

	got, err := env.svc.AccessLogs(context.Background(), document.UUID, "owner-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// ===== Revoke =====

func TestRevoke_InvalidatesCacheAndDeletesBlob(t *testing.T) {
	env := newTestEnv(t)
	env.expectTX()

	env.vaultRepo.On("SoftDelete", mock.Anything, mock.Anything, "doc-1", "owner-1").Return("vault/owner-1/doc-1", nil)
	env.cache.On("DeleteDocument", mock.Anything, "doc-1").Return(nil)
	env.storage.On("DeleteObject", mock.Anything, "vault/owner-1/doc-1").Return(nil)

	err := env.svc.Revoke(context.Background(), "doc-1", "owner-1")

	require.NoError(t, err)
	// кэш инвалидируется до и после коммита
	env.cache.AssertNumberOfCalls(t, "DeleteDocument", 2)
	env.storage.AssertCalled(t, "DeleteObject", mock.Anything, "vault/owner-1/doc-1")
}

func TestRevoke_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	env.expectTX()

	env.vaultRepo.On("SoftDelete", mock.Anything, mock.Anything, "doc-1", "stranger").
		Return("", apperrors.ErrAuthorization)

	err := env.svc.Revoke(context.Background(), "doc-1", "stranger")

	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	env.storage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}
