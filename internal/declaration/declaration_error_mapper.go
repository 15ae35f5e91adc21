package declaration

import (
	"errors"

	declarationerrors "go-hrportal/internal/declaration/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// mapPersistError turns a lost race on uq_declarations_employee_year into a
// conflict the caller can retry.
func mapPersistError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return declarationerrors.ErrDeclarationConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return declarationerrors.ErrDeclarationConflict
	}
	return err
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return declarationerrors.ErrDeclarationNotFound
	}
	return err
}
