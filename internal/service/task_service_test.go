package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-service/internal/domain"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

func taskFixture(t *testing.T) (*testEnv, *domain.User, *domain.User, *domain.Project) {
	t.Helper()
	env := newTestEnv()
	owner := env.seedUser("Owner", "owner@example.com")
	assignee := env.seedUser("Dev", "dev@example.com")
	client := env.seedClient(owner.ID, "Acme")
	env.grant(client.ID, assignee.ID, PermissionInput{CanView: true, CanManageTask: true})
	project, err := env.project.CreateProject(context.Background(), owner.ID, client.ID, ProjectInput{Name: "Site"})
	require.NoError(t, err)
	return env, owner, assignee, project
}

func TestCreateTaskDefaultsAndAssignmentEvent(t *testing.T) {
	env, owner, assignee, project := taskFixture(t)
	ctx := context.Background()

	task, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{
		Title:          "Build login",
		AssigneeUserID: &assignee.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)

	inbox, err := env.notifications.ListByUser(ctx, assignee.ID, false, 50, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationTaskAssigned, inbox[0].Kind)
}

func TestCreateTaskSelfAssignmentSilent(t *testing.T) {
	env, owner, _, project := taskFixture(t)
	ctx := context.Background()

	_, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{
		Title:          "Solo work",
		AssigneeUserID: &owner.ID,
	})
	require.NoError(t, err)

	inbox, err := env.notifications.ListByUser(ctx, owner.ID, false, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestCreateTaskValidation(t *testing.T) {
	env, owner, _, project := taskFixture(t)
	ctx := context.Background()

	t.Run("empty title", func(t *testing.T) {
		_, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{Title: "  "})
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("invalid priority", func(t *testing.T) {
		_, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{
			Title:    "X",
			Priority: domain.TaskPriority("WHENEVER"),
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	})
}

func TestUpdateTaskStatusTransitions(t *testing.T) {
	env, owner, assignee, project := taskFixture(t)
	ctx := context.Background()

	task, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{
		Title:          "Ship it",
		AssigneeUserID: &assignee.ID,
	})
	require.NoError(t, err)

	done := domain.TaskStatusDone
	updated, err := env.task.UpdateTask(ctx, owner.ID, task.ID, TaskUpdateInput{Status: &done})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)

	todo := domain.TaskStatusTodo
	reopened, err := env.task.UpdateTask(ctx, owner.ID, task.ID, TaskUpdateInput{Status: &todo})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)

	// one TASK_ASSIGNED and two TASK_STATUS_CHANGED rows
	inbox, err := env.notifications.ListByUser(ctx, assignee.ID, false, 50, 0)
	require.NoError(t, err)
	statusChanges := 0
	for _, n := range inbox {
		if n.Kind == domain.NotificationTaskStatus {
			statusChanges++
		}
	}
	assert.Equal(t, 2, statusChanges)
}

func TestUpdateTaskClearAssignee(t *testing.T) {
	env, owner, assignee, project := taskFixture(t)
	ctx := context.Background()

	task, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{
		Title:          "Handoff",
		AssigneeUserID: &assignee.ID,
	})
	require.NoError(t, err)

	updated, err := env.task.UpdateTask(ctx, owner.ID, task.ID, TaskUpdateInput{ClearAssignee: true})
	require.NoError(t, err)
	assert.Nil(t, updated.AssigneeUserID)
}

func TestDeleteTaskRemovesChildren(t *testing.T) {
	env, owner, _, project := taskFixture(t)
	ctx := context.Background()

	task, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{Title: "Cleanup"})
	require.NoError(t, err)
	_, err = env.task.AddComment(ctx, owner.ID, task.ID, "note")
	require.NoError(t, err)
	_, err = env.timesheet.StartTimer(ctx, owner.ID, task.ID, nil)
	require.NoError(t, err)

	require.NoError(t, env.task.DeleteTask(ctx, owner.ID, task.ID))
	assert.Empty(t, env.store.tasks)
	assert.Empty(t, env.store.comments)
	assert.Empty(t, env.store.entries)
}

func TestAddCommentNotifiesAssignee(t *testing.T) {
	env, owner, assignee, project := taskFixture(t)
	ctx := context.Background()

	task, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{
		Title:          "Review",
		AssigneeUserID: &assignee.ID,
	})
	require.NoError(t, err)

	_, err = env.task.AddComment(ctx, owner.ID, task.ID, "please check the edge case")
	require.NoError(t, err)

	inbox, err := env.notifications.ListByUser(ctx, assignee.ID, false, 50, 0)
	require.NoError(t, err)
	found := false
	for _, n := range inbox {
		if n.Kind == domain.NotificationCommentAdded {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDeleteCommentAuthorOrEditor(t *testing.T) {
	env, owner, assignee, project := taskFixture(t)
	ctx := context.Background()

	task, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{Title: "Discuss"})
	require.NoError(t, err)
	comment, err := env.task.AddComment(ctx, assignee.ID, task.ID, "my take")
	require.NoError(t, err)

	t.Run("non-author without can_edit is forbidden", func(t *testing.T) {
		viewer := env.seedUser("Viewer", "viewer@example.com")
		env.grant(project.ClientID, viewer.ID, PermissionInput{CanView: true})
		err := env.task.DeleteComment(ctx, viewer.ID, comment.ID)
		require.Error(t, err)
		assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("author may delete", func(t *testing.T) {
		require.NoError(t, env.task.DeleteComment(ctx, assignee.ID, comment.ID))
	})
}

func TestListTasksFilterByAssignee(t *testing.T) {
	env, owner, assignee, project := taskFixture(t)
	ctx := context.Background()

	_, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{Title: "A", AssigneeUserID: &assignee.ID})
	require.NoError(t, err)
	_, err = env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{Title: "B"})
	require.NoError(t, err)

	tasks, err := env.task.ListTasks(ctx, owner.ID, project.ID, TaskListFilter{AssigneeUserID: &assignee.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A", tasks[0].Title)
}

func TestGetTaskIncludesLoggedTime(t *testing.T) {
	env, owner, _, project := taskFixture(t)
	ctx := context.Background()

	task, err := env.task.CreateTask(ctx, owner.ID, project.ID, TaskCreateInput{Title: "Timed"})
	require.NoError(t, err)

	start := time.Now().Add(-2 * time.Hour)
	_, err = env.timesheet.AddManualEntry(ctx, owner.ID, task.ID, ManualEntryInput{
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Minute),
	})
	require.NoError(t, err)

	detail, err := env.task.GetTask(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, detail.LoggedTotal)
}
