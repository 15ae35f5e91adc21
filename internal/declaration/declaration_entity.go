package declaration

import (
	"time"

	"go-hrportal/internal/attachment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusDraft     = "Draft"
	StatusSubmitted = "Submitted"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
)

const (
	TaxSchemeOld = "Old Tax Scheme"
	TaxSchemeNew = "New Tax Scheme"
)

// AgreementText is the attestation every employee signs. Clients cannot
// override it.
const AgreementText = "do hereby declare that what is stated above is true to the best of my knowledge and belief. " +
	"I also undertake to provide any further information or evidence that may be required " +
	"for the purpose of ensuring the correct deduction of tax."

type Declaration struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_declarations_employee_year,priority:1"`
	FinancialYear string    `gorm:"type:varchar(7);not null;uniqueIndex:uq_declarations_employee_year,priority:2;index:idx_declarations_year_status"`

	EmployeeName  string     `gorm:"type:varchar(150);not null"`
	EmployeeCode  string     `gorm:"type:varchar(30)"`
	EmployeeEmail string     `gorm:"type:varchar(150)"`
	Department    string     `gorm:"type:varchar(100)"`
	Designation   string     `gorm:"type:varchar(100)"`
	PAN           string     `gorm:"column:pan;type:varchar(10)"`
	Gender        string     `gorm:"type:varchar(20)"`
	DateOfBirth   *time.Time `gorm:"type:date"`
	DateOfJoining *time.Time `gorm:"type:date"`

	TaxScheme       string                       `gorm:"type:varchar(20);not null;default:'Old Tax Scheme'"`
	Status          string                       `gorm:"type:varchar(20);not null;default:'Draft';index:idx_declarations_year_status"`
	Sections        datatypes.JSONType[Sections] `gorm:"type:jsonb;not null"`
	Section80CTotal decimal.Decimal              `gorm:"type:numeric(14,2);not null;default:0"`
	Version         int                          `gorm:"not null;default:1"`

	SubmittedAt     *time.Time
	ApprovalDate    *time.Time
	ApprovalRemarks *string    `gorm:"type:text"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	Form12BBURL     *string    `gorm:"column:form12bb_url;type:text"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"index:idx_declarations_created,priority:1"`
	UpdatedAt time.Time

	// never loaded; declares the foreign key so documents go with their declaration
	Attachments []attachment.Attachment `gorm:"foreignKey:DeclarationID;constraint:OnDelete:CASCADE" json:"-"`
}

// Data returns a copy of the nested sections.
func (d *Declaration) Data() Sections {
	return d.Sections.Data()
}

// Update applies fn to the sections and recomputes every derived field
// before storing them back, so callers never observe a stale 80C total or
// housing loan limit.
func (d *Declaration) Update(fn func(s *Sections)) {
	s := d.Sections.Data()
	fn(&s)
	s.recompute()
	d.Sections = datatypes.NewJSONType(s)
	d.Section80CTotal = s.Section80CTotal()
}

func IsValidStatus(v string) bool {
	switch v {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func IsValidTaxScheme(v string) bool {
	return v == TaxSchemeOld || v == TaxSchemeNew
}
