package models

type UserRole string

const (
	SpaceAdminRole     UserRole = "SPACE_ADMIN_ROLE"
	CustomerRole       UserRole = "CUSTOMER_ROLE"
	SupplierRole       UserRole = "SUPPLIER_ROLE"
	ObserverRole       UserRole = "OBSERVER_ROLE"
	UserRoleSuperAdmin UserRole = "SUPER_ADMIN"
)

var roleHumanName = map[UserRole]string{
	SpaceAdminRole:     "Администратор",
	CustomerRole:       "Заказчик",
	SupplierRole:       "Исполнитель",
	ObserverRole:       "Наблюдатель",
	UserRoleSuperAdmin: "Суперадмин системы",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsSpaceAdmin() bool {
	return r == SpaceAdminRole
}

// ParseRole - роль из запроса, суперадмин назначается только системой
func ParseRole(value string) (UserRole, bool) {
	role := UserRole(value)
	switch role {
	case SpaceAdminRole, CustomerRole, SupplierRole, ObserverRole:
		return role, true
	}
	return "", false
}

const SystemUser = "Система"
