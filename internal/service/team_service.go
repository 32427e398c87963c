package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

// TeamService coordinates team and membership workflows.
type TeamService struct {
	teams      repository.TeamRepository
	users      repository.UserRepository
	access     *AccessService
	dispatcher events.Dispatcher
}

// TeamDependencies bundles repositories for the team service.
type TeamDependencies struct {
	TeamRepo   repository.TeamRepository
	UserRepo   repository.UserRepository
	Access     *AccessService
	Dispatcher events.Dispatcher
}

// TeamInput describes team create/update payloads.
type TeamInput struct {
	Name        string
	Description string
	IsActive    *bool
}

// TeamWithMembers pairs a team with its membership rows and user names.
type TeamWithMembers struct {
	Team    domain.Team
	Members []TeamMemberDetail
}

// TeamMemberDetail joins a membership row with the user's display fields.
type TeamMemberDetail struct {
	Member domain.TeamMember
	Name   string
	Email  string
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	return &TeamService{
		teams:      deps.TeamRepo,
		users:      deps.UserRepo,
		access:     deps.Access,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTeam creates a team under a client.
func (s *TeamService) CreateTeam(ctx context.Context, userID, clientID string, input TeamInput) (*domain.Team, error) {
	if err := s.access.Require(ctx, clientID, userID, PermManageTeam); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	team := &domain.Team{
		ClientID:    clientID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}
	if input.IsActive != nil {
		team.IsActive = *input.IsActive
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// ListTeams returns a client's teams with their members.
func (s *TeamService) ListTeams(ctx context.Context, userID, clientID string) ([]TeamWithMembers, error) {
	if err := s.access.Require(ctx, clientID, userID, PermView); err != nil {
		return nil, err
	}
	teams, err := s.teams.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	result := make([]TeamWithMembers, 0, len(teams))
	for _, team := range teams {
		members, err := s.memberDetails(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, TeamWithMembers{Team: team, Members: members})
	}
	return result, nil
}

// UpdateTeam updates team fields.
func (s *TeamService) UpdateTeam(ctx context.Context, userID, teamID string, input TeamInput) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, team.ClientID, userID, PermManageTeam); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		team.Name = strings.TrimSpace(input.Name)
	}
	if input.Description != "" {
		team.Description = strings.TrimSpace(input.Description)
	}
	if input.IsActive != nil {
		team.IsActive = *input.IsActive
	}
	if err := s.teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam removes members then the team row.
func (s *TeamService) DeleteTeam(ctx context.Context, userID, teamID string) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, team.ClientID, userID, PermManageTeam); err != nil {
		return err
	}
	if err := s.teams.DeleteMembersByTeam(ctx, teamID); err != nil {
		return err
	}
	return s.teams.Delete(ctx, teamID)
}

// AddMembers adds the given users to a team one by one. Users already in
// the team are skipped; an unknown user id aborts the loop.
func (s *TeamService) AddMembers(ctx context.Context, userID, teamID string, userIDs []string, role string) ([]domain.TeamMember, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, team.ClientID, userID, PermManageTeam); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, apperrors.NewValidationError("user_ids required", nil)
	}
	if role == "" {
		role = "member"
	}

	added := make([]domain.TeamMember, 0, len(userIDs))
	for _, memberID := range userIDs {
		if _, err := s.users.GetByID(ctx, memberID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("user", map[string]any{"user_id": memberID})
			}
			return nil, err
		}
		member := &domain.TeamMember{TeamID: teamID, UserID: memberID, Role: role}
		if err := s.teams.AddMember(ctx, member); err != nil {
			return nil, err
		}
		if member.ID == "" {
			// duplicate membership, nothing inserted
			continue
		}
		added = append(added, *member)
		s.publishEvent(ctx, events.Event{
			Type:        events.EventTeamMemberAdded,
			ActorUserID: userID,
			Payload: events.TeamMemberAddedPayload{
				TeamID:   team.ID,
				TeamName: team.Name,
				UserID:   memberID,
			},
		})
	}
	return added, nil
}

// RemoveMembers removes the given users from a team one by one.
func (s *TeamService) RemoveMembers(ctx context.Context, userID, teamID string, userIDs []string) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, team.ClientID, userID, PermManageTeam); err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return apperrors.NewValidationError("user_ids required", nil)
	}
	for _, memberID := range userIDs {
		if err := s.teams.RemoveMember(ctx, teamID, memberID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TeamService) memberDetails(ctx context.Context, teamID string) ([]TeamMemberDetail, error) {
	members, err := s.teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	details := make([]TeamMemberDetail, 0, len(members))
	for _, m := range members {
		detail := TeamMemberDetail{Member: m}
		if u, ok := byID[m.UserID]; ok {
			detail.Name = u.Name
			detail.Email = u.Email
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *TeamService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
