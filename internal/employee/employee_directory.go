package employee

import (
	"context"
	"errors"
	"time"

	employeeerrors "go-hrportal/internal/employee/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Profile is the slice of an employee record copied onto a declaration.
type Profile struct {
	ID            uuid.UUID
	Name          string
	Code          string
	Email         string
	Department    string
	Designation   string
	PAN           string
	Gender        string
	DateOfBirth   *time.Time
	DateOfJoining *time.Time
}

type Directory interface {
	Lookup(ctx context.Context, employeeID string) (Profile, error)
}

type directory struct {
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewDirectory(repo Repository, logger ...*zap.Logger) Directory {
	l := zap.L().Named("employee.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.directory")
	}
	return &directory{repo: repo, sf: &singleflight.Group{}, logger: l}
}

func (d *directory) Lookup(ctx context.Context, employeeID string) (Profile, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return Profile{}, employeeerrors.ErrInvalidEmployeeID
	}

	// concurrent saves for one employee share a single read, which must not
	// end when the caller that started it goes away
	v, err, _ := d.sf.Do(employeeID, func() (any, error) {
		return d.repo.FindByID(context.WithoutCancel(ctx), employeeID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, employeeerrors.ErrEmployeeNotFound
		}
		d.logger.Error("employee lookup failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return Profile{}, err
	}
	e := v.(*Employee)

	return Profile{
		ID:            e.ID,
		Name:          e.FullName,
		Code:          e.EmployeeNumber,
		Email:         e.Email,
		Department:    e.Department,
		Designation:   e.Designation,
		PAN:           e.PAN,
		Gender:        e.Gender,
		DateOfBirth:   e.DateOfBirth,
		DateOfJoining: e.DateOfJoining,
	}, nil
}
