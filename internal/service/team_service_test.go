package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-service/internal/domain"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

func TestAddMembersSkipsDuplicatesAndNotifies(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	dev := env.seedUser("Dev", "dev@example.com")
	client := env.seedClient(owner.ID, "Acme")

	team, err := env.team.CreateTeam(ctx, owner.ID, client.ID, TeamInput{Name: "Core"})
	require.NoError(t, err)

	added, err := env.team.AddMembers(ctx, owner.ID, team.ID, []string{dev.ID}, "")
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "member", added[0].Role)

	// adding again is a no-op, not an error
	added, err = env.team.AddMembers(ctx, owner.ID, team.ID, []string{dev.ID}, "lead")
	require.NoError(t, err)
	assert.Empty(t, added)

	inbox, err := env.notifications.ListByUser(ctx, dev.ID, false, 50, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationMemberAdded, inbox[0].Kind)
}

func TestAddMembersUnknownUserAborts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	client := env.seedClient(owner.ID, "Acme")

	team, err := env.team.CreateTeam(ctx, owner.ID, client.ID, TeamInput{Name: "Core"})
	require.NoError(t, err)

	_, err = env.team.AddMembers(ctx, owner.ID, team.ID, []string{"ghost"}, "member")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestTeamManagementRequiresFlag(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	viewer := env.seedUser("Viewer", "viewer@example.com")
	client := env.seedClient(owner.ID, "Acme")
	env.grant(client.ID, viewer.ID, PermissionInput{CanView: true})

	_, err := env.team.CreateTeam(ctx, viewer.ID, client.ID, TeamInput{Name: "Rogue"})
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestListTeamsIncludesMemberDetails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	dev := env.seedUser("Dev", "dev@example.com")
	client := env.seedClient(owner.ID, "Acme")

	team, err := env.team.CreateTeam(ctx, owner.ID, client.ID, TeamInput{Name: "Core"})
	require.NoError(t, err)
	_, err = env.team.AddMembers(ctx, owner.ID, team.ID, []string{dev.ID}, "member")
	require.NoError(t, err)

	teams, err := env.team.ListTeams(ctx, owner.ID, client.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Len(t, teams[0].Members, 1)
	assert.Equal(t, "Dev", teams[0].Members[0].Name)
	assert.Equal(t, "dev@example.com", teams[0].Members[0].Email)
}

func TestDeleteTeamRemovesMembers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("Owner", "owner@example.com")
	dev := env.seedUser("Dev", "dev@example.com")
	client := env.seedClient(owner.ID, "Acme")

	team, err := env.team.CreateTeam(ctx, owner.ID, client.ID, TeamInput{Name: "Core"})
	require.NoError(t, err)
	_, err = env.team.AddMembers(ctx, owner.ID, team.ID, []string{dev.ID}, "member")
	require.NoError(t, err)

	require.NoError(t, env.team.DeleteTeam(ctx, owner.ID, team.ID))
	assert.Empty(t, env.store.teams)
	assert.Empty(t, env.store.members)
}
