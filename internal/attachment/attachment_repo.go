package attachment

import (
	"context"
	"database/sql"

	"go-hrportal/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attachment_repo.go -destination=mock/attachment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attachment) error
	FindByID(ctx context.Context, declarationID, id string) (*Attachment, error)
	ListByDeclaration(ctx context.Context, declarationID string) ([]Attachment, error)
	ListBySection(ctx context.Context, declarationID string, section Section) ([]Attachment, error)
	Delete(ctx context.Context, declarationID, id string) error
	DeleteByDeclaration(ctx context.Context, declarationID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, a *Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, declarationID, id string) (*Attachment, error) {
	var a Attachment
	err := r.db.WithContext(ctx).
		Where("declaration_id = ?", declarationID).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) ListByDeclaration(ctx context.Context, declarationID string) ([]Attachment, error) {
	var out []Attachment
	err := r.db.WithContext(ctx).
		Where("declaration_id = ?", declarationID).
		Order("uploaded_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListBySection(ctx context.Context, declarationID string, section Section) ([]Attachment, error) {
	var out []Attachment
	err := r.db.WithContext(ctx).
		Where("declaration_id = ?", declarationID).
		Where("section = ?", section).
		Order("uploaded_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) Delete(ctx context.Context, declarationID, id string) error {
	return r.db.WithContext(ctx).
		Where("declaration_id = ?", declarationID).
		Delete(&Attachment{}, "id = ?", id).Error
}

func (r *repository) DeleteByDeclaration(ctx context.Context, declarationID string) error {
	return r.db.WithContext(ctx).
		Where("declaration_id = ?", declarationID).
		Delete(&Attachment{}).Error
}
