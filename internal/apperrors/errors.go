package apperrors

import "errors"

// Классификация ошибок хранилища документов
// Сервисный слой возвращает только эти значения (обёрнутые через %w),
// обработчики сопоставляют их с HTTP-кодами через errors.Is
var (
	// ErrValidation : некорректный запрос, контекста документа ещё нет — в журнал не пишется
	ErrValidation = errors.New("некорректный запрос")

	// ErrInvalidPayload : конверт QR-кода не распарсился или не прошёл проверку схемы
	ErrInvalidPayload = errors.New("некорректный формат QR-конверта")

	// ErrToken : подпись, тип, аудитория или срок действия токена не прошли проверку
	ErrToken = errors.New("токен недействителен или истёк")

	// ErrNotFound : документ не найден
	ErrNotFound = errors.New("документ не найден")

	// ErrInactive : документ отозван владельцем, токен больше не действует
	ErrInactive = errors.New("документ деактивирован")

	// ErrAuthorization : роль не допускает запрошенное действие либо запрос не от владельца
	ErrAuthorization = errors.New("доступ запрещён")

	// ErrAuthenticationFailed : тег аутентификации шифротекста не сошёлся — данные повреждены или подменены
	ErrAuthenticationFailed = errors.New("проверка подлинности шифротекста не пройдена")

	// ErrIntegrityMismatch : хэш расшифрованных данных не совпал — фатально для этого чтения
	ErrIntegrityMismatch = errors.New("нарушена целостность расшифрованных данных")

	// ErrBlobFormat : блоб не соответствует версионированному формату nonce|ciphertext|tag
	ErrBlobFormat = errors.New("неподдерживаемый формат зашифрованного блоба")

	// ErrStorage : сбой ввода-вывода блоб-хранилища
	ErrStorage = errors.New("ошибка блоб-хранилища")
)

// Kind : короткое имя класса ошибки для журнала доступа
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid-payload"
	case errors.Is(err, ErrToken):
		return "token"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	case errors.Is(err, ErrInactive):
		return "inactive"
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	case errors.Is(err, ErrAuthenticationFailed):
		return "authentication-failed"
	case errors.Is(err, ErrIntegrityMismatch):
		return "integrity-mismatch"
	case errors.Is(err, ErrBlobFormat):
		return "blob-format"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}
