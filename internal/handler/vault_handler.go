package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"health-vault-server/internal/apperrors"
	"health-vault-server/internal/model"
	requestresponse "health-vault-server/internal/model/requestresponse"
	"health-vault-server/internal/ports"
	"health-vault-server/internal/qr"
	"health-vault-server/internal/security"
	"health-vault-server/internal/service"
	"health-vault-server/internal/util"
)

// Лимиты загрузки, как в исходной системе: 10 МБ, только PDF и изображения
const maxUploadBytes = 10 << 20

var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

type VaultHandler struct {
	ports.VaultService
}

func NewVaultHandler(vaultService ports.VaultService) *VaultHandler {
	return &VaultHandler{vaultService}
}

// UploadDocument godoc
// @Summary Загрузка и шифрование документа
// @Description Принимает файл и параметры шаринга, шифрует содержимое и возвращает QR-конверт для получателя.
// @Tags Vault
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл документа (PDF или изображение)"
// @Param grantee_uuid formData string true "UUID получателя доступа"
// @Param role formData string true "Роль получателя: doctor, pharmacist, diagnostic"
// @Param permission formData string false "Уровень доступа (выводится из роли, если не задан)"
// @Param description formData string false "Описание документа"
// @Param expiry_minutes formData int true "Срок действия токена: 30, 120, 1440 или 10080"
// @Param Authorization header string true "Bearer токен принципала" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.UploadDocumentResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/vault/documents [post]
func (h *VaultHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	claims, err := security.GetPrincipalFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса или файл превышает 10 МБ", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		util.HandleError(w, "допустимы только PDF и изображения", http.StatusBadRequest)
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		util.HandleError(w, "ошибка чтения файла", http.StatusInternalServerError)
		return
	}

	expiryMinutes, err := strconv.Atoi(r.FormValue("expiry_minutes"))
	if err != nil {
		util.HandleError(w, "неверный формат expiry_minutes", http.StatusBadRequest)
		return
	}

	input := &model.UploadInput{
		FileName:      header.Filename,
		Content:       fileBytes,
		GranteeUUID:   r.FormValue("grantee_uuid"),
		Role:          model.Role(r.FormValue("role")),
		Permission:    model.Permission(r.FormValue("permission")),
		Description:   r.FormValue("description"),
		ExpiryMinutes: expiryMinutes,
	}

	result, err := h.VaultService.UploadDocument(ctx, claims.UserUUID, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response := requestresponse.UploadDocumentResponse{
		Data: requestresponse.UploadDocumentData{
			DocumentUUID: result.Document.UUID,
			SharePayload: result.SharePayload,
			ExpiresAt:    result.ExpiresAt.Format(time.RFC3339),
			FileName:     result.Document.FilenameOriginal,
			MimeCategory: string(result.Document.MimeCategory),
			SizeBytes:    result.Document.SizeBytes,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// RedeemPayload godoc
// @Summary Предъявление QR-конверта
// @Description Проверяет конверт и токен, возвращает сводку документа и токен для запроса содержимого.
// @Tags Vault
// @Accept json
// @Produce json
// @Param payload body requestresponse.RedeemPayloadRequest true "QR-конверт"
// @Param Authorization header string true "Bearer токен принципала" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.RedeemPayloadResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 410 {object} requestresponse.ErrorResponse
// @Router /api/vault/redeem [post]
func (h *VaultHandler) RedeemPayload(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetPrincipalFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.RedeemPayloadRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.SharePayload == "" {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	result, err := h.VaultService.Redeem(r.Context(), request.SharePayload, claims.UserUUID, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response := requestresponse.RedeemPayloadResponse{
		Data: requestresponse.RedeemPayloadData{
			DocumentUUID: result.Document.UUID,
			FileName:     result.Document.FilenameOriginal,
			MimeCategory: string(result.Document.MimeCategory),
			SizeBytes:    result.Document.SizeBytes,
			Description:  result.Document.Description,
			Role:         string(result.Document.Role),
			Permission:   string(result.Document.Permission),
			CreatedAt:    result.Document.CreatedAt.Format(time.RFC3339),
			AccessToken:  result.AccessToken,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetDocumentContent godoc
// @Summary Получение расшифрованного содержимого
// @Description Проверяет токен из заголовка X-Access-Token и отдаёт расшифрованный документ.
// @Tags Vault
// @Produce octet-stream
// @Param doc_id path string true "UUID документа"
// @Param action query string false "Действие: view или download" default(view)
// @Param X-Access-Token header string true "Capability-токен из предъявления конверта"
// @Param Authorization header string true "Bearer токен принципала" default(Bearer <access_token>)
// @Success 200 {file} binary
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 410 {object} requestresponse.ErrorResponse
// @Router /api/vault/documents/{doc_id}/content [get]
func (h *VaultHandler) GetDocumentContent(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetPrincipalFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	documentUUID := chi.URLParam(r, "doc_id")
	if documentUUID == "" {
		util.HandleError(w, "ID документа обязателен", http.StatusBadRequest)
		return
	}

	token := r.Header.Get("X-Access-Token")
	if token == "" {
		util.HandleError(w, "токен доступа обязателен", http.StatusUnauthorized)
		return
	}

	action := model.ActionView
	if raw := r.URL.Query().Get("action"); raw != "" {
		action = model.Action(raw)
	}

	plaintext, document, err := h.VaultService.FetchContent(r.Context(), documentUUID, token, claims.UserUUID, action, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", service.ContentTypeFor(document.MimeCategory))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", document.FilenameOriginal))
	w.Header().Set("Content-Length", strconv.Itoa(len(plaintext)))
	w.Write(plaintext)
}

// ListDocuments godoc
// @Summary Список документов
// @Description Метаданные документов по владельцу или получателю; принципал может смотреть только свои списки.
// @Tags Vault
// @Produce json
// @Param owner query string false "UUID владельца"
// @Param grantee query string false "UUID получателя"
// @Param Authorization header string true "Bearer токен принципала" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListDocumentsResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/vault/documents [get]
func (h *VaultHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetPrincipalFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	owner := r.URL.Query().Get("owner")
	grantee := r.URL.Query().Get("grantee")

	var docs []model.VaultDocument
	switch {
	case owner != "" && grantee == "":
		if owner != claims.UserUUID {
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
			return
		}
		docs, err = h.VaultService.ListByOwner(r.Context(), owner)
	case grantee != "" && owner == "":
		if grantee != claims.UserUUID {
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
			return
		}
		docs, err = h.VaultService.ListByGrantee(r.Context(), grantee)
	default:
		util.HandleError(w, "укажите ровно один параметр: owner или grantee", http.StatusBadRequest)
		return
	}

	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response := requestresponse.ListDocumentsResponse{Count: len(docs)}
	response.Data.Docs = make([]requestresponse.DocumentResponse, 0, len(docs))
	for i := range docs {
		response.Data.Docs = append(response.Data.Docs, requestresponse.DocumentResponseFromModel(&docs[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetAccessLogs godoc
// @Summary Журнал доступа к документу
// @Description Записи журнала в порядке от новых к старым; доступен только владельцу документа.
// @Tags Vault
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Param Authorization header string true "Bearer токен принципала" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.AccessLogResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/vault/documents/{doc_id}/log [get]
func (h *VaultHandler) GetAccessLogs(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetPrincipalFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	documentUUID := chi.URLParam(r, "doc_id")
	if documentUUID == "" {
		util.HandleError(w, "ID документа обязателен", http.StatusBadRequest)
		return
	}

	entries, err := h.VaultService.AccessLogs(r.Context(), documentUUID, claims.UserUUID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response := requestresponse.AccessLogResponse{Count: len(entries)}
	response.Data.Entries = entries

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DeleteDocument godoc
// @Summary Отзыв документа
// @Description Мягкое удаление: запись деактивируется, шифротекст удаляется, журнал доступа сохраняется.
// @Tags Vault
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Param Authorization header string true "Bearer токен принципала" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/vault/documents/{doc_id} [delete]
func (h *VaultHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetPrincipalFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	documentUUID := chi.URLParam(r, "doc_id")
	if documentUUID == "" {
		util.HandleError(w, "ID документа обязателен", http.StatusBadRequest)
		return
	}

	if err := h.VaultService.Revoke(r.Context(), documentUUID, claims.UserUUID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "Документ отозван"})
}

// GetExpiryOptions godoc
// @Summary Предустановленные сроки действия токена
// @Tags Vault
// @Produce json
// @Success 200 {object} requestresponse.ExpiryOptionsResponse
// @Router /api/vault/expiry-options [get]
func (h *VaultHandler) GetExpiryOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.ExpiryOptionsResponse{Data: qr.ExpiryOptions()})
}

// GetRoleGrants godoc
// @Summary Таблица ролей и допустимых действий
// @Tags Vault
// @Produce json
// @Success 200 {object} requestresponse.RoleGrantsResponse
// @Router /api/vault/roles [get]
func (h *VaultHandler) GetRoleGrants(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.RoleGrantsResponse{Data: qr.RoleGrants()})
}

// writeServiceError : сопоставляет класс ошибки сервиса с HTTP-кодом
// Наружу уходит только грубая классификация, детали остаются в логе
func (h *VaultHandler) writeServiceError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidPayload):
		util.HandleError(w, "некорректный запрос", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrToken):
		util.HandleError(w, "токен недействителен или истёк", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrAuthorization):
		util.HandleError(w, "доступ запрещён", http.StatusForbidden)
	case errors.Is(err, apperrors.ErrNotFound):
		util.HandleError(w, "документ не найден", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrInactive):
		util.HandleError(w, "документ деактивирован владельцем", http.StatusGone)
	case errors.Is(err, apperrors.ErrAuthenticationFailed),
		errors.Is(err, apperrors.ErrIntegrityMismatch),
		errors.Is(err, apperrors.ErrBlobFormat),
		errors.Is(err, apperrors.ErrStorage):
		util.HandleError(w, "содержимое документа недоступно", http.StatusInternalServerError)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

func requestMeta(r *http.Request) model.RequestMeta {
	return model.RequestMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
