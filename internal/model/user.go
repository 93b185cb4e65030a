package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a workflow user stored in the local database
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255);not null"`
	Role         string         `json:"role" gorm:"type:varchar(50);not null;default:'requester'"`
	Department   string         `json:"department" gorm:"type:varchar(100)"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// Workflow capabilities. The set for a role is resolved once at login and
// embedded in the JWT, not re-derived per request.
const (
	PermIndentCreate    = "indent:create"
	PermIndentApprove   = "indent:approve"
	PermRateCompare     = "rate:compare"
	PermPOGenerate      = "po:generate"
	PermPOApprove       = "po:approve"
	PermPODelete        = "po:delete"
	PermGoodsReceive    = "goods:receive"
	PermStoreOutCreate  = "storeout:create"
	PermStoreOutApprove = "storeout:approve"
	PermStoreOutIssue   = "storeout:issue"
)

var rolePermissions = map[string][]string{
	"requester": {
		PermIndentCreate, PermStoreOutCreate,
	},
	"approver": {
		PermIndentCreate, PermIndentApprove, PermStoreOutCreate, PermStoreOutApprove,
	},
	"purchaser": {
		PermIndentCreate, PermRateCompare, PermPOGenerate,
	},
	"storekeeper": {
		PermGoodsReceive, PermStoreOutCreate, PermStoreOutIssue,
	},
	"admin": {
		PermIndentCreate, PermIndentApprove, PermRateCompare, PermPOGenerate,
		PermPOApprove, PermPODelete, PermGoodsReceive,
		PermStoreOutCreate, PermStoreOutApprove, PermStoreOutIssue,
	},
}

// PermissionsForRole resolves the capability set for a role. Unknown roles
// get no capabilities.
func PermissionsForRole(role string) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
