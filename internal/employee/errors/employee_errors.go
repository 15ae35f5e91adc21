package employeeerrors

import (
	"net/http"

	"go-hrportal/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee does not exist or has left",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"employeeId must be a UUID",
		http.StatusBadRequest,
	)
)
