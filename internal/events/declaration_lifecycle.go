package events

import "time"

const DeclarationLifecycleTopic = "hr.declaration.lifecycle.v1"

const (
	DeclarationStatusChanged = "declaration.status_changed"
	DeclarationDeleted       = "declaration.deleted"
	// DeclarationCorrected is an administrator edit of a Submitted or
	// Approved declaration. FromStatus and ToStatus are equal.
	DeclarationCorrected = "declaration.corrected"
)

// DeclarationStatusChangedEvent is keyed by DeclarationID so every change of
// one declaration lands on the same partition in order.
type DeclarationStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	DeclarationID string    `json:"declaration_id"`
	EmployeeID    string    `json:"employee_id"`
	FinancialYear string    `json:"financial_year"`
	FromStatus    string    `json:"from_status,omitempty"`
	ToStatus      string    `json:"to_status,omitempty"`
	ActorID       string    `json:"actor_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
