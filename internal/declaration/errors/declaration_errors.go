package declarationerrors

import (
	"net/http"

	"go-hrportal/internal/shared/apperror"
)

var (
	ErrInvalidDeclarationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid declaration id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidFinancialYear = apperror.New(
		apperror.CodeInvalidInput,
		"financial year must look like 2025-26",
		http.StatusBadRequest,
	)
	ErrInvalidTaxScheme = apperror.New(
		apperror.CodeInvalidInput,
		"tax scheme must be Old Tax Scheme or New Tax Scheme",
		http.StatusBadRequest,
	)
	ErrInvalidHousingLoanType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown housing loan type",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidRentMonths = apperror.New(
		apperror.CodeInvalidInput,
		"rent months must be between 0 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"unknown declaration status",
		http.StatusBadRequest,
	)
	ErrInvalidCursor = apperror.New(
		apperror.CodeInvalidInput,
		"invalid cursor",
		http.StatusBadRequest,
	)
	ErrAgreementRequired = apperror.New(
		apperror.CodeInvalidInput,
		"declaration must be agreed to before submitting",
		http.StatusBadRequest,
	)
	ErrSignatureRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employee signature is required before submitting",
		http.StatusBadRequest,
	)
	ErrRemarksRequired = apperror.New(
		apperror.CodeInvalidInput,
		"remarks are required when rejecting a declaration",
		http.StatusBadRequest,
	)
	ErrInvalidDocumentType = apperror.New(
		apperror.CodeInvalidInput,
		"documentType must be one of the declaration document sections",
		http.StatusBadRequest,
	)
	ErrDocumentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"document file is required",
		http.StatusBadRequest,
	)
	ErrDocumentTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"document exceeds the 10 MB limit",
		http.StatusBadRequest,
	)
	ErrUnsupportedContentType = apperror.New(
		apperror.CodeInvalidInput,
		"only PDF, JPEG, PNG, GIF, DOC and DOCX documents are accepted",
		http.StatusBadRequest,
	)

	ErrDeclarationLocked = apperror.New(
		apperror.CodeInvalidState,
		"declaration is submitted or approved and can no longer be edited",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid declaration status transition",
		http.StatusBadRequest,
	)
	ErrAttachmentsLocked = apperror.New(
		apperror.CodeInvalidState,
		"documents can only be changed while the declaration is draft or rejected",
		http.StatusBadRequest,
	)

	ErrDeclarationNotFound = apperror.New(
		apperror.CodeNotFound,
		"declaration not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrAttachmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"document not found",
		http.StatusNotFound,
	)

	ErrDeclarationConflict = apperror.New(
		apperror.CodeConflict,
		"a declaration for this employee and financial year is being saved concurrently",
		http.StatusConflict,
	)
	ErrVersionMismatch = apperror.New(
		apperror.CodeConflict,
		"declaration was modified by someone else, reload and try again",
		http.StatusConflict,
	)

	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"not authorized to access this declaration",
		http.StatusForbidden,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"only administrators can perform this action",
		http.StatusForbidden,
	)
)

// StorageError wraps an object storage failure so the handler reports 502
// while the cause stays reachable through errors.Is.
func StorageError(err error) *apperror.AppError {
	return apperror.Wrap(err,
		apperror.CodeStorageFailure,
		"document storage failed",
		http.StatusBadGateway,
	)
}
