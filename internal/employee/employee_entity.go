package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"type:varchar(30);uniqueIndex:uq_employee_number"`
	FullName       string
	Email          string `gorm:"uniqueIndex:uq_employee_email"`
	Department     string
	Designation    string
	PAN            string     `gorm:"column:pan;type:varchar(10)"`
	Gender         string     `gorm:"type:varchar(20)"`
	DateOfBirth    *time.Time `gorm:"type:date"`
	DateOfJoining  *time.Time `gorm:"type:date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// employees is shared with the HR core records; this service only reads it
// outside of local migrations.
func (Employee) TableName() string {
	return "employees"
}
