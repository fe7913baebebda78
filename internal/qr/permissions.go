package qr

import "health-vault-server/internal/model"

// RoleGrant : уровень доступа и допустимые действия роли
type RoleGrant struct {
	Permission     model.Permission `json:"permission"`
	Description    string           `json:"description"`
	AllowedActions []model.Action   `json:"allowed_actions"`
}

// Единственная таблица соответствия роль → доступ → действия
// Любая пара вне таблицы запрещена; новая роль добавляется
// одной строкой здесь, без правок по всему коду
var rolePermissions = map[model.Role]RoleGrant{
	model.RoleDoctor: {
		Permission:     model.PermissionFull,
		Description:    "Полный доступ ко всем медицинским документам",
		AllowedActions: []model.Action{model.ActionView, model.ActionDownload, model.ActionAnnotate, model.ActionPrescribe},
	},
	model.RolePharmacist: {
		Permission:     model.PermissionPartial,
		Description:    "Доступ к рецептам и документам о препаратах",
		AllowedActions: []model.Action{model.ActionView, model.ActionDownload},
	},
	model.RoleDiagnostic: {
		Permission:     model.PermissionReadOnly,
		Description:    "Только чтение лабораторных и диагностических документов",
		AllowedActions: []model.Action{model.ActionView},
	},
}

// IsActionAllowed : чистая проверка по таблице, запрет по умолчанию
func IsActionAllowed(role model.Role, action model.Action) bool {
	grant, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, allowed := range grant.AllowedActions {
		if allowed == action {
			return true
		}
	}
	return false
}

// PermissionForRole : уровень доступа, закреплённый за ролью
func PermissionForRole(role model.Role) (model.Permission, bool) {
	grant, ok := rolePermissions[role]
	if !ok {
		return "", false
	}
	return grant.Permission, true
}

// RoleGrants : копия таблицы для выдачи наружу
func RoleGrants() map[model.Role]RoleGrant {
	out := make(map[model.Role]RoleGrant, len(rolePermissions))
	for role, grant := range rolePermissions {
		out[role] = grant
	}
	return out
}

// ExpiryOption : предустановленный срок действия токена
type ExpiryOption struct {
	Label       string `json:"label"`
	Minutes     int    `json:"minutes"`
	Description string `json:"description"`
}

var expiryOptions = []ExpiryOption{
	{Label: "30 минут", Minutes: 30, Description: "Быстрый доступ для очной консультации"},
	{Label: "2 часа", Minutes: 120, Description: "Расширенный доступ для детального изучения"},
	{Label: "24 часа", Minutes: 1440, Description: "Доступ на день для полного анализа"},
	{Label: "7 дней", Minutes: 10080, Description: "Недельный доступ для ведения лечения"},
}

// ExpiryOptions : меню сроков действия для вызывающей стороны
func ExpiryOptions() []ExpiryOption {
	out := make([]ExpiryOption, len(expiryOptions))
	copy(out, expiryOptions)
	return out
}

// IsAllowedExpiry : срок действия должен быть из предустановленного меню
func IsAllowedExpiry(minutes int) bool {
	for _, option := range expiryOptions {
		if option.Minutes == minutes {
			return true
		}
	}
	return false
}
