package entity

import "time"

// Roles válidos para User, de mayor a menor privilegio.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// roleRank jerarquía de roles: un rol mayor hereda los permisos de los menores.
var roleRank = map[string]int{
	RoleVendedor:  1,
	RoleBodeguero: 2,
	RoleAdmin:     3,
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleAtLeast indica si role tiene como mínimo el privilegio de min.
func RoleAtLeast(role, min string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	return r >= roleRank[min]
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // admin, bodeguero, vendedor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
