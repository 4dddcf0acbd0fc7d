package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiticket/helpdesk-service/internal/domain"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

func TestUserCreate(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("Ada", "ada@example.com", domain.RoleAdmin, true)

	user, err := f.userService.Create(context.Background(), asCaller(admin), CreateUserInput{
		Name:     "Alain",
		Email:    "Alain@Example.com",
		Password: "secret",
		Role:     domain.RoleAgent,
	})
	require.NoError(t, err)

	// Administrative creation leaves the account inactive until an
	// explicit activation; the email is normalized.
	assert.False(t, user.Active)
	assert.Equal(t, "alain@example.com", user.Email)
	assert.Equal(t, domain.RoleAgent, user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash)

	entries, err := f.logs.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AdminActionCreateUser, entries[0].Action)
	require.NotNil(t, entries[0].TargetUserID)
	assert.Equal(t, user.ID, *entries[0].TargetUserID)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("Ada", "ada@example.com", domain.RoleAdmin, true)
	f.seedUser("Alain", "alain@example.com", domain.RoleAgent, true)

	_, err := f.userService.Create(context.Background(), asCaller(admin), CreateUserInput{
		Name:     "Autre",
		Email:    "alain@example.com",
		Password: "secret",
		Role:     domain.RoleAgent,
	})
	assert.True(t, apperrors.IsCode(err, "DUPLICATE_EMAIL"))
	assert.Empty(t, f.logs.entries)
}

func TestUserManageRequiresAdmin(t *testing.T) {
	f := newFixture()
	agent := f.seedUser("Alain", "alain@example.com", domain.RoleAgent, true)
	client := f.seedUser("Claire", "claire@example.com", domain.RoleClient, true)

	_, err := f.userService.ListAll(context.Background(), asCaller(agent))
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.userService.GetByID(context.Background(), asCaller(client), agent.ID)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.userService.SetRole(context.Background(), asCaller(agent), client.ID, domain.RoleAgent)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestUserUpdate(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("Ada", "ada@example.com", domain.RoleAdmin, true)
	agent := f.seedUser("Alain", "alain@example.com", domain.RoleAgent, true)
	f.seedUser("Oscar", "oscar@example.com", domain.RoleClient, true)

	newName := "Alain Dupont"
	user, err := f.userService.Update(context.Background(), asCaller(admin), agent.ID, UpdateUserInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alain Dupont", user.Name)

	taken := "oscar@example.com"
	_, err = f.userService.Update(context.Background(), asCaller(admin), agent.ID, UpdateUserInput{Email: &taken})
	assert.True(t, apperrors.IsCode(err, "DUPLICATE_EMAIL"))

	_, err = f.userService.Update(context.Background(), asCaller(admin), "missing", UpdateUserInput{Name: &newName})
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestUserSetActive(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("Ada", "ada@example.com", domain.RoleAdmin, true)
	agent := f.seedUser("Alain", "alain@example.com", domain.RoleAgent, false)

	user, err := f.userService.SetActive(context.Background(), asCaller(admin), agent.ID, true)
	require.NoError(t, err)
	assert.True(t, user.Active)

	user, err = f.userService.SetActive(context.Background(), asCaller(admin), agent.ID, false)
	require.NoError(t, err)
	assert.False(t, user.Active)

	entries, err := f.logs.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, domain.AdminActionDeactivateUser, entries[0].Action)
	assert.Equal(t, domain.AdminActionActivateUser, entries[1].Action)
	assert.Equal(t, fmt.Sprintf("Activation du compte utilisateur %s", agent.Email), entries[1].Details)
}

func TestUserSetRole(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("Ada", "ada@example.com", domain.RoleAdmin, true)
	client := f.seedUser("Claire", "claire@example.com", domain.RoleClient, true)

	user, err := f.userService.SetRole(context.Background(), asCaller(admin), client.ID, domain.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, user.Role)

	entries, err := f.logs.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AdminActionUpdateUserRole, entries[0].Action)
	assert.Equal(t, fmt.Sprintf("Changement de rôle: CLIENT -> AGENT pour l'utilisateur %s", client.Email), entries[0].Details)
}

func TestUserDelete(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("Ada", "ada@example.com", domain.RoleAdmin, true)
	client := f.seedUser("Claire", "claire@example.com", domain.RoleClient, true)

	err := f.userService.Delete(context.Background(), asCaller(admin), client.ID)
	require.NoError(t, err)

	_, err = f.users.GetByID(context.Background(), client.ID)
	assert.Error(t, err)

	entries, err := f.logs.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AdminActionDeleteUser, entries[0].Action)
	// The deleted account no longer resolves, so the target reference is
	// stored absent and only the details carry the email.
	assert.Nil(t, entries[0].TargetUserID)
	assert.Equal(t, fmt.Sprintf("Suppression de l'utilisateur %s", client.Email), entries[0].Details)

	err = f.userService.Delete(context.Background(), asCaller(admin), client.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestUserGetByEmail(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("Ada", "ada@example.com", domain.RoleAdmin, true)
	agent := f.seedUser("Alain", "alain@example.com", domain.RoleAgent, true)

	user, err := f.userService.GetByEmail(context.Background(), asCaller(admin), "Alain@Example.com")
	require.NoError(t, err)
	assert.Equal(t, agent.ID, user.ID)

	_, err = f.userService.GetByEmail(context.Background(), asCaller(admin), "nobody@example.com")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = f.userService.GetByEmail(context.Background(), asCaller(agent), "ada@example.com")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestUserListings(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("Ada", "ada@example.com", domain.RoleAdmin, true)
	f.seedUser("Alain", "alain@example.com", domain.RoleAgent, true)
	f.seedUser("Inès", "ines@example.com", domain.RoleAgent, false)

	all, err := f.userService.ListAll(context.Background(), asCaller(admin))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := f.userService.ListActive(context.Background(), asCaller(admin))
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
