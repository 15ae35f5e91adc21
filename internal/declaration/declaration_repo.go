package declaration

import (
	"context"
	"database/sql"
	"strings"

	"go-hrportal/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListQuery holds the ANDed filters of a declaration listing. Empty fields
// do not filter.
type ListQuery struct {
	EmployeeID    string
	FinancialYear string
	Status        string
	Search        string
	After         *Cursor
	Limit         int
}

//go:generate mockgen -source=declaration_repo.go -destination=mock/declaration_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Declaration) error
	Update(ctx context.Context, d *Declaration) error
	FindByID(ctx context.Context, id string) (*Declaration, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Declaration, error)
	FindByEmployeeAndYear(ctx context.Context, employeeID, financialYear string) (*Declaration, error)
	FindByEmployeeAndYearForUpdate(ctx context.Context, employeeID, financialYear string) (*Declaration, error)
	List(ctx context.Context, q ListQuery) ([]Declaration, error)
	Delete(ctx context.Context, id string) error
	SetForm12BBURL(ctx context.Context, id, url string) error
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

func (r *repository) Create(ctx context.Context, d *Declaration) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) Update(ctx context.Context, d *Declaration) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Declaration, error) {
	var d Declaration
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Declaration, error) {
	var d Declaration
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) FindByEmployeeAndYear(ctx context.Context, employeeID, financialYear string) (*Declaration, error) {
	var d Declaration
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("financial_year = ?", financialYear).
		First(&d).Error
	return &d, err
}

func (r *repository) FindByEmployeeAndYearForUpdate(ctx context.Context, employeeID, financialYear string) (*Declaration, error) {
	var d Declaration
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		Where("financial_year = ?", financialYear).
		First(&d).Error
	return &d, err
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Declaration, error) {
	db := r.db.WithContext(ctx).Model(&Declaration{})

	if q.EmployeeID != "" {
		db = db.Where("employee_id = ?", q.EmployeeID)
	}
	if q.FinancialYear != "" {
		db = db.Where("financial_year = ?", q.FinancialYear)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		db = db.Where(
			"(employee_name ILIKE ? OR employee_code ILIKE ? OR employee_email ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if q.After != nil {
		db = db.Where("(created_at, id) > (?, ?)", q.After.CreatedAt, q.After.ID)
	}

	var out []Declaration
	err := db.
		Order("created_at ASC, id ASC").
		Limit(q.Limit).
		Find(&out).Error
	return out, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Declaration{}, "id = ?", id).Error
}

func (r *repository) SetForm12BBURL(ctx context.Context, id, url string) error {
	return r.db.WithContext(ctx).
		Model(&Declaration{}).
		Where("id = ?", id).
		Update("form12bb_url", url).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
