package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"

	"health-vault-server/internal/apperrors"
	"health-vault-server/internal/util"
)

// Формат блоба: version(1) | nonce(12) | ciphertext | tag(16)
// Версия байта позволяет сменить алгоритм без перепутывания старых блобов
const (
	blobVersionV1 = 0x01
	nonceSize     = 12
	tagSize       = 16
)

// Контекст домена подмешивается как AAD: шифротекст хранилища
// нельзя предъявить никакой другой подсистеме
const domainContext = "health-vault-document.v1"

// Engine : аутентифицированное шифрование содержимого документов
// Ключ выводится один раз при создании, сами операции не имеют
// состояния и безопасны для параллельного вызова
type Engine struct {
	aead stdcipher.AEAD
}

// NewEngine : выводит 256-битный AES-ключ из парольной фразы через argon2id
func NewEngine(passphrase string, salt string) (*Engine, error) {
	if passphrase == "" || salt == "" {
		return nil, fmt.Errorf("[CipherEngine] парольная фраза и соль обязательны")
	}

	key := argon2.IDKey([]byte(passphrase), []byte(salt), 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, util.LogError("[CipherEngine] ошибка инициализации AES", err)
	}

	aead, err := stdcipher.NewGCM(block)
	if err != nil {
		return nil, util.LogError("[CipherEngine] ошибка инициализации GCM", err)
	}

	return &Engine{aead: aead}, nil
}

// Encrypt : шифрует содержимое документа и возвращает блоб вместе
// с hex-хэшем SHA-256 исходных данных для независимой проверки целостности
// Nonce генерируется заново при каждом вызове
func (e *Engine) Encrypt(plaintext []byte) (blob []byte, contentHash string, err error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, "", util.LogError("[CipherEngine] ошибка генерации nonce", err)
	}

	blob = make([]byte, 0, 1+nonceSize+len(plaintext)+tagSize)
	blob = append(blob, blobVersionV1)
	blob = append(blob, nonce...)
	blob = e.aead.Seal(blob, nonce, plaintext, []byte(domainContext))

	return blob, Hash(plaintext), nil
}

// Decrypt : разбирает блоб по фиксированным ширинам и расшифровывает
// При несовпадении тега аутентификации не возвращает ничего
func (e *Engine) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < 1+nonceSize+tagSize {
		return nil, fmt.Errorf("[CipherEngine] блоб короче минимальной длины: %w", apperrors.ErrBlobFormat)
	}
	if blob[0] != blobVersionV1 {
		return nil, fmt.Errorf("[CipherEngine] неизвестная версия блоба 0x%02x: %w", blob[0], apperrors.ErrBlobFormat)
	}

	nonce := blob[1 : 1+nonceSize]
	ciphertext := blob[1+nonceSize:]

	plaintext, err := e.aead.Open(nil, nonce, ciphertext, []byte(domainContext))
	if err != nil {
		return nil, fmt.Errorf("[CipherEngine] тег аутентификации не сошёлся: %w", apperrors.ErrAuthenticationFailed)
	}

	return plaintext, nil
}

// VerifyIntegrity : пересчитывает хэш и сравнивает за константное время
func (e *Engine) VerifyIntegrity(plaintext []byte, expectedHash string) bool {
	expected, err := hex.DecodeString(expectedHash)
	if err != nil {
		return false
	}

	actual := sha256.Sum256(plaintext)
	return subtle.ConstantTimeCompare(actual[:], expected) == 1
}

// Hash : hex-хэш SHA-256 содержимого
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
