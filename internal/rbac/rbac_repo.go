package rbac

import (
	"context"

	"gorm.io/gorm"
)

// RolePermission is an operator-managed grant stored on top of the defaults.
type RolePermission struct {
	ID       uint   `gorm:"primaryKey"`
	Role     string `gorm:"size:50;not null;uniqueIndex:uq_role_permission"`
	Resource string `gorm:"size:100;not null;uniqueIndex:uq_role_permission"`
	Action   string `gorm:"size:50;not null;uniqueIndex:uq_role_permission"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type Repository interface {
	ListRolePermissions(ctx context.Context) ([]RolePermission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListRolePermissions(ctx context.Context) ([]RolePermission, error) {
	var rows []RolePermission
	err := r.db.WithContext(ctx).
		Order("role ASC, resource ASC, action ASC").
		Find(&rows).Error
	return rows, err
}
