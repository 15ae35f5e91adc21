package declaration

import (
	declarationerrors "go-hrportal/internal/declaration/errors"

	"github.com/google/uuid"
)

const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
	RoleAccountant = "accountant"
)

// Actor is the authenticated caller of a declaration operation.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       string
}

func (a Actor) IsAdmin() bool {
	switch a.Role {
	case RoleAdmin, RoleSuperAdmin, RoleAccountant:
		return true
	}
	return false
}

func (a Actor) owns(employeeID uuid.UUID) bool {
	return a.EmployeeID != "" && a.EmployeeID == employeeID.String()
}

type Operation string

const (
	OpRead    Operation = "read"
	OpSave    Operation = "save"
	OpSubmit  Operation = "submit"
	OpApprove Operation = "approve"
	OpReject  Operation = "reject"
	OpDelete  Operation = "delete"
	OpAttach  Operation = "attach"
	OpDetach  Operation = "detach"
)

// authorize is the single guard for every declaration operation, keyed by
// operation, caller and the current status of the declaration owned by
// owner. An empty status means the declaration does not exist yet.
func authorize(op Operation, actor Actor, owner uuid.UUID, status string) error {
	admin := actor.IsAdmin()
	if !admin && !actor.owns(owner) {
		return declarationerrors.ErrNotOwner
	}

	switch op {
	case OpRead:
		return nil
	case OpSave:
		if (status == StatusSubmitted || status == StatusApproved) && !admin {
			return declarationerrors.ErrDeclarationLocked
		}
		return nil
	case OpSubmit:
		if !isAllowedStatusTransition(status, StatusSubmitted) {
			return declarationerrors.ErrInvalidStatusTransition
		}
		return nil
	case OpApprove, OpReject:
		if !admin {
			return declarationerrors.ErrAdminOnly
		}
		target := StatusApproved
		if op == OpReject {
			target = StatusRejected
		}
		if !isAllowedStatusTransition(status, target) {
			return declarationerrors.ErrInvalidStatusTransition
		}
		return nil
	case OpDelete:
		if !admin && status != StatusDraft {
			return declarationerrors.ErrDeclarationLocked
		}
		return nil
	case OpAttach, OpDetach:
		if status != StatusDraft && status != StatusRejected {
			return declarationerrors.ErrAttachmentsLocked
		}
		return nil
	}
	return declarationerrors.ErrInvalidStatusTransition
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case "":
		return targetStatus == StatusDraft
	case StatusDraft:
		return targetStatus == StatusDraft || targetStatus == StatusSubmitted
	case StatusRejected:
		return targetStatus == StatusDraft || targetStatus == StatusSubmitted
	case StatusSubmitted:
		return targetStatus == StatusApproved || targetStatus == StatusRejected
	default:
		return false
	}
}

// statusAfterSave is the status a declaration ends up in after a save that
// passed authorize. Administrators correcting a submitted or approved
// declaration keep its status.
func statusAfterSave(current string) string {
	switch current {
	case StatusSubmitted, StatusApproved:
		return current
	}
	return StatusDraft
}
