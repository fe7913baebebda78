package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-vault-server/internal/apperrors"
	"health-vault-server/internal/model"
)

// токен с теми же claims, но чужим type_tag, подписанный тем же ключом
func issueForeignToken(t *testing.T, service *CapabilityService, doc *model.VaultDocument) string {
	t.Helper()

	claims := CapabilityClaims{
		DocumentUUID: doc.UUID,
		OwnerUUID:    doc.OwnerUUID,
		GranteeUUID:  doc.GranteeUUID,
		Role:         doc.Role,
		Permission:   doc.Permission,
		TokenType:    "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(service.now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(service.now()),
			Issuer:    tokenIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(service.secret)
	require.NoError(t, err)
	return signed
}

func testDocument() *model.VaultDocument {
	return &model.VaultDocument{
		UUID:        "doc-uuid-1",
		OwnerUUID:   "patient-uuid-1",
		GranteeUUID: "doctor-uuid-1",
		Role:        model.RoleDoctor,
		Permission:  model.PermissionFull,
	}
}

// сервис с управляемыми часами
func frozenService(secret string, at time.Time) *CapabilityService {
	service := NewCapabilityService([]byte(secret))
	service.now = func() time.Time { return at }
	return service
}

func TestIssueVerify_HappyPath(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := frozenService("secret-key", issuedAt)

	token, expiresAt, err := service.Issue(testDocument(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(30*time.Minute), expiresAt)

	claims, err := service.Verify(token, "doctor-uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-uuid-1", claims.DocumentUUID)
	assert.Equal(t, "patient-uuid-1", claims.OwnerUUID)
	assert.Equal(t, model.RoleDoctor, claims.Role)
	assert.Equal(t, model.PermissionFull, claims.Permission)
	assert.Equal(t, TokenTypeVaultAccess, claims.TokenType)
}

func TestVerify_TokenLifetime(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := frozenService("secret-key", issuedAt)

	token, _, err := issuer.Issue(testDocument(), 30*time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"в момент выдачи", issuedAt, true},
		{"через 29 минут", issuedAt.Add(29 * time.Minute), true},
		{"за секунду до истечения", issuedAt.Add(30*time.Minute - time.Second), true},
		{"ровно в момент истечения", issuedAt.Add(30 * time.Minute), false},
		{"через 31 минуту", issuedAt.Add(31 * time.Minute), false},
		{"сутки спустя", issuedAt.Add(24 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := frozenService("secret-key", tc.at)
			_, err := verifier.Verify(token, "doctor-uuid-1")
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, apperrors.ErrToken))
			}
		})
	}
}

func TestVerify_ClockSkew(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := frozenService("secret-key", issuedAt)

	token, _, err := issuer.Issue(testDocument(), 30*time.Minute)
	require.NoError(t, err)

	// проверяющая сторона отстаёт на 10 секунд — в пределах допуска
	behind := frozenService("secret-key", issuedAt.Add(-10*time.Second))
	_, err = behind.Verify(token, "doctor-uuid-1")
	assert.NoError(t, err)

	// отставание больше допуска — отказ
	farBehind := frozenService("secret-key", issuedAt.Add(-2*time.Minute))
	_, err = farBehind.Verify(token, "doctor-uuid-1")
	assert.True(t, errors.Is(err, apperrors.ErrToken))
}

func TestVerify_WrongGrantee(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := frozenService("secret-key", at)

	token, _, err := service.Issue(testDocument(), time.Hour)
	require.NoError(t, err)

	claims, err := service.Verify(token, "другой-врач")
	assert.True(t, errors.Is(err, apperrors.ErrToken))
	// контекст документа сохраняется для журнала доступа
	require.NotNil(t, claims)
	assert.Equal(t, "doc-uuid-1", claims.DocumentUUID)
}

func TestVerify_WrongKey(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := frozenService("secret-key", at)
	verifier := frozenService("другой-ключ", at)

	token, _, err := issuer.Issue(testDocument(), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token, "doctor-uuid-1")
	assert.True(t, errors.Is(err, apperrors.ErrToken))
}

func TestVerify_WrongTokenType(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := frozenService("secret-key", at)

	// подписываем токен того же семейства claims, но с чужим типом
	doc := testDocument()
	token, _, err := service.Issue(doc, time.Hour)
	require.NoError(t, err)

	// сам по себе валидный токен проходит
	_, err = service.Verify(token, doc.GranteeUUID)
	require.NoError(t, err)

	// токен с другим type_tag (например, сессионный) — отказ
	foreign := issueForeignToken(t, service, doc)
	_, err = service.Verify(foreign, doc.GranteeUUID)
	assert.True(t, errors.Is(err, apperrors.ErrToken))
}

func TestVerify_Garbage(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := frozenService("secret-key", at)

	_, err := service.Verify("не.токен.вовсе", "doctor-uuid-1")
	assert.True(t, errors.Is(err, apperrors.ErrToken))

	_, err = service.Verify("", "doctor-uuid-1")
	assert.True(t, errors.Is(err, apperrors.ErrToken))
}
