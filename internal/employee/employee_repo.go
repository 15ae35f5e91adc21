package employee

import (
	"context"

	"gorm.io/gorm"
)

// profileColumns are the only employee columns a declaration snapshots.
var profileColumns = []string{
	"id", "employee_number", "full_name", "email", "department",
	"designation", "pan", "gender", "date_of_birth", "date_of_joining",
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindByID skips soft-deleted employees and returns gorm.ErrRecordNotFound
// for them.
func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Select(profileColumns).
		Where("id = ?", id).
		Take(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
