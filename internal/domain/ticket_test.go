package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTicketStatus(t *testing.T) {
	for _, valid := range []string{"OPEN", "IN_PROGRESS", "ESCALATED", "CLOSED"} {
		status, ok := ParseTicketStatus(valid)
		assert.True(t, ok)
		assert.Equal(t, TicketStatus(valid), status)
	}
	for _, invalid := range []string{"", "open", "ARCHIVED", "PENDING"} {
		_, ok := ParseTicketStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestTicketHelpers(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusOpen}
	assert.False(t, ticket.IsClosed())
	assert.False(t, ticket.HasAgent())

	agentID := "agent-1"
	ticket.AgentID = &agentID
	assert.True(t, ticket.HasAgent())

	empty := ""
	ticket.AgentID = &empty
	assert.False(t, ticket.HasAgent())

	ticket.Status = TicketStatusClosed
	assert.True(t, ticket.IsClosed())
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"CLIENT", "AGENT", "ADMIN"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok)
		assert.Equal(t, Role(valid), role)
	}
	for _, invalid := range []string{"", "client", "SUPERUSER"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestRoleIsStaff(t *testing.T) {
	assert.False(t, RoleClient.IsStaff())
	assert.True(t, RoleAgent.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
}
