package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

func TestCreateClientGrantsOwnerPermissions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")

	client, err := env.client.CreateClient(ctx, owner.ID, ClientInput{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, client.OwnerUserID)
	assert.True(t, client.IsActive)

	perm, err := env.perms.GetForUser(ctx, client.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, perm.CanView)
	assert.True(t, perm.CanEdit)
	assert.True(t, perm.CanDelete)
	assert.True(t, perm.CanManageTeam)
	assert.True(t, perm.CanManageTask)
}

func TestListClientsOnlyViewable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	other := env.seedUser("Other", "other@example.com")

	mine := env.seedClient(owner.ID, "Acme")
	env.seedClient(other.ID, "Globex")

	clients, err := env.client.ListClients(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, mine.ID, clients[0].ID)
}

func TestGetClientRequiresView(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	stranger := env.seedUser("Stranger", "stranger@example.com")
	client := env.seedClient(owner.ID, "Acme")

	_, err := env.client.GetClient(ctx, stranger.ID, client.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestDeleteClientCascades(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	member := env.seedUser("Member", "member@example.com")
	client := env.seedClient(owner.ID, "Acme")

	project, err := env.project.CreateProject(ctx, owner.ID, client.ID, ProjectInput{Name: "Site"})
	require.NoError(t, err)
	_, err = env.project.CreateApplication(ctx, owner.ID, project.ID, ApplicationInput{Name: "web"})
	require.NoError(t, err)
	task, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{Title: "Ship"})
	require.NoError(t, err)
	_, err = env.task.AddComment(ctx, owner.ID, task.ID, "on it")
	require.NoError(t, err)
	_, err = env.timesheet.StartTimer(ctx, owner.ID, task.ID, nil)
	require.NoError(t, err)

	team, err := env.team.CreateTeam(ctx, owner.ID, client.ID, TeamInput{Name: "Core"})
	require.NoError(t, err)
	_, err = env.team.AddMembers(ctx, owner.ID, team.ID, []string{member.ID}, "member")
	require.NoError(t, err)

	loan, err := env.loan.CreateLoan(ctx, owner.ID, client.ID, LoanInput{Label: "Advance", PrincipalCents: 10_000})
	require.NoError(t, err)
	_, err = env.loan.AddPayment(ctx, owner.ID, loan.ID, PaymentInput{AmountCents: 2_500})
	require.NoError(t, err)

	require.NoError(t, env.client.DeleteClient(ctx, owner.ID, client.ID))

	assert.Empty(t, env.store.clients)
	assert.Empty(t, env.store.projects)
	assert.Empty(t, env.store.apps)
	assert.Empty(t, env.store.tasks)
	assert.Empty(t, env.store.comments)
	assert.Empty(t, env.store.entries)
	assert.Empty(t, env.store.teams)
	assert.Empty(t, env.store.members)
	assert.Empty(t, env.store.loans)
	assert.Empty(t, env.store.payments)
	assert.Empty(t, env.store.perms)
}

func TestDeleteClientRequiresDeleteFlag(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	editor := env.seedUser("Editor", "editor@example.com")
	client := env.seedClient(owner.ID, "Acme")

	env.grant(client.ID, editor.ID, PermissionInput{CanView: true, CanEdit: true})

	err := env.client.DeleteClient(ctx, editor.ID, client.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestOwnerPermissionImmutable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	manager := env.seedUser("Manager", "manager@example.com")
	client := env.seedClient(owner.ID, "Acme")

	env.grant(client.ID, manager.ID, PermissionInput{CanView: true, CanManageTeam: true})

	t.Run("cannot downgrade owner", func(t *testing.T) {
		_, err := env.client.UpsertPermission(ctx, manager.ID, client.ID, owner.ID, PermissionInput{CanView: true})
		require.Error(t, err)
		assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("cannot revoke owner", func(t *testing.T) {
		err := env.client.RevokePermission(ctx, manager.ID, client.ID, owner.ID)
		require.Error(t, err)
		assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("can grant and revoke others", func(t *testing.T) {
		viewer := env.seedUser("Viewer", "viewer@example.com")
		perm, err := env.client.UpsertPermission(ctx, manager.ID, client.ID, viewer.ID, PermissionInput{CanView: true})
		require.NoError(t, err)
		assert.True(t, perm.CanView)
		assert.False(t, perm.CanEdit)

		require.NoError(t, env.client.RevokePermission(ctx, manager.ID, client.ID, viewer.ID))
		_, err = env.perms.GetForUser(ctx, client.ID, viewer.ID)
		require.Error(t, err)
	})
}

func TestUpdateClientPartialFields(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	client := env.seedClient(owner.ID, "Acme")

	phone := "+1 555 0100"
	inactive := false
	updated, err := env.client.UpdateClient(ctx, owner.ID, client.ID, ClientInput{
		Phone:    &phone,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.CompanyName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.False(t, updated.IsActive)
}
