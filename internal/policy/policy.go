// Package policy evaluates whether a caller may perform an operation on
// a resource. Decisions are pure: no I/O, no clock, deterministic for
// every (caller, operation, resource) triple.
package policy

import "github.com/digiticket/helpdesk-service/internal/domain"

// Operation names a protected capability.
type Operation string

const (
	OpTicketRead         Operation = "ticket:read"
	OpTicketCreate       Operation = "ticket:create"
	OpTicketListAll      Operation = "ticket:list_all"
	OpTicketListByClient Operation = "ticket:list_by_client"
	OpTicketListByAgent  Operation = "ticket:list_by_agent"
	OpTicketAssign       Operation = "ticket:assign"
	OpTicketForceAssign  Operation = "ticket:force_assign"
	OpTicketUpdateStatus Operation = "ticket:update_status"
	OpTicketEscalate     Operation = "ticket:escalate"
	OpTicketClose        Operation = "ticket:close"
	OpUserManage         Operation = "user:manage"
	OpStatsRead          Operation = "stats:read"
	OpAuditRead          Operation = "audit:read"
	OpNotificationRead   Operation = "notification:read"
)

// Caller is the identity and role resolved from a request token.
type Caller struct {
	ID   string
	Role domain.Role
}

// Resource carries the target of the operation. Only the fields relevant
// to the operation need to be set.
type Resource struct {
	// Ticket is the target ticket for per-ticket operations.
	Ticket *domain.Ticket
	// OwnerID identifies the subject of ownership-scoped operations:
	// the client/agent of a per-user listing, or a notification's owner.
	OwnerID string
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow grants the operation.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny refuses the operation with a reason surfaced as FORBIDDEN.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize evaluates the access rules for one operation. A deny is
// terminal: callers must not attempt the operation. Unauthorized reads
// surface as forbidden, never as not-found.
func Authorize(caller Caller, op Operation, res Resource) Decision {
	switch op {
	case OpTicketRead:
		switch caller.Role {
		case domain.RoleAdmin:
			return Allow()
		case domain.RoleClient:
			if res.Ticket != nil && res.Ticket.ClientID == caller.ID {
				return Allow()
			}
			return Deny("clients may only read their own tickets")
		case domain.RoleAgent:
			if res.Ticket != nil && res.Ticket.AgentID != nil && *res.Ticket.AgentID == caller.ID {
				return Allow()
			}
			return Deny("agents may only read tickets assigned to them")
		}
		return Deny("unknown role")

	case OpTicketCreate:
		if caller.Role == domain.RoleClient {
			return Allow()
		}
		return Deny("only clients may create tickets")

	case OpTicketListAll:
		switch caller.Role {
		case domain.RoleAdmin, domain.RoleAgent:
			return Allow()
		case domain.RoleClient:
			return Deny("listing all tickets requires a staff role")
		}
		return Deny("unknown role")

	case OpTicketListByClient:
		switch caller.Role {
		case domain.RoleAdmin:
			return Allow()
		case domain.RoleClient, domain.RoleAgent:
			if caller.ID == res.OwnerID && caller.Role == domain.RoleClient {
				return Allow()
			}
			return Deny("callers may only list their own client tickets")
		}
		return Deny("unknown role")

	case OpTicketListByAgent:
		switch caller.Role {
		case domain.RoleAdmin:
			return Allow()
		case domain.RoleAgent:
			if caller.ID == res.OwnerID {
				return Allow()
			}
			return Deny("agents may only list their own assignments")
		case domain.RoleClient:
			return Deny("listing agent tickets requires a staff role")
		}
		return Deny("unknown role")

	case OpTicketAssign, OpTicketUpdateStatus, OpTicketEscalate:
		switch caller.Role {
		case domain.RoleAdmin, domain.RoleAgent:
			return Allow()
		case domain.RoleClient:
			return Deny("operation requires a staff role")
		}
		return Deny("unknown role")

	case OpTicketForceAssign:
		if caller.Role == domain.RoleAdmin {
			return Allow()
		}
		return Deny("forced assignment is restricted to administrators")

	case OpTicketClose:
		switch caller.Role {
		case domain.RoleAdmin, domain.RoleAgent:
			return Allow()
		case domain.RoleClient:
			if res.Ticket != nil && res.Ticket.ClientID == caller.ID {
				return Allow()
			}
			return Deny("clients may only close their own tickets")
		}
		return Deny("unknown role")

	case OpUserManage, OpStatsRead, OpAuditRead:
		if caller.Role == domain.RoleAdmin {
			return Allow()
		}
		return Deny("operation is restricted to administrators")

	case OpNotificationRead:
		if caller.ID != "" && caller.ID == res.OwnerID {
			return Allow()
		}
		return Deny("notifications are visible to their owner only")
	}

	return Deny("unknown operation")
}
