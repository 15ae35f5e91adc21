package form12bb

import (
	"go-hrportal/internal/shared/apperror"
	"net/http"
)

var (
	ErrMissingEmployeeName = apperror.New(
		apperror.CodeRenderFailure,
		"Employee name is required to generate Form 12BB",
		http.StatusUnprocessableEntity,
	)
	ErrMissingFinancialYear = apperror.New(
		apperror.CodeRenderFailure,
		"Financial year is required to generate Form 12BB",
		http.StatusUnprocessableEntity,
	)
)
