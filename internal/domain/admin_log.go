package domain

import "time"

// AdminAction names an administrative mutation in the audit trail.
type AdminAction string

const (
	AdminActionCreateUser     AdminAction = "CREATE_USER"
	AdminActionUpdateUser     AdminAction = "UPDATE_USER"
	AdminActionDeleteUser     AdminAction = "DELETE_USER"
	AdminActionUpdateUserRole AdminAction = "UPDATE_USER_ROLE"
	AdminActionActivateUser   AdminAction = "ACTIVATE_USER"
	AdminActionDeactivateUser AdminAction = "DEACTIVATE_USER"
	AdminActionAssignTicket   AdminAction = "ASSIGN_TICKET"
)

// AdminLog is an append-only audit entry for administrator actions.
// Target references are weak and stored as absent when unresolvable.
type AdminLog struct {
	ID             string
	AdminID        string
	Action         AdminAction
	Details        string
	TargetUserID   *string
	TargetTicketID *string
	CreatedAt      time.Time
}
